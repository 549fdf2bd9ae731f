package memoria

import (
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// EntradaCoreMap invierte la traducción: por cada marco físico, qué
// página virtual de qué espacio lo ocupa
type EntradaCoreMap struct {
	vpn    int
	duenio maquina.EspacioUsuario
}

// CoreMapManager alimenta el TLB y decide qué página expulsar cuando el
// pool de marcos se agota
type CoreMapManager struct {
	entradas   []EntradaCoreMap
	marcos     *FrameManager
	estrategia maquina.EstrategiaReemplazo
}

func NuevoCoreMapManager(numMarcos int, marcos *FrameManager, estrategia maquina.EstrategiaReemplazo) *CoreMapManager {
	c := &CoreMapManager{
		entradas:   make([]EntradaCoreMap, numMarcos),
		marcos:     marcos,
		estrategia: estrategia,
	}
	for i := range c.entradas {
		c.entradas[i].vpn = -1
	}
	return c
}

// PushEntryToTLB resuelve la traducción de vpn para el hilo actual y la
// cachea en el TLB. Si la página no está en memoria pide un marco (o
// expulsa una víctima), se la hace cargar al espacio dueño y registra
// el fallo de página.
func (c *CoreMapManager) PushEntryToTLB(vpn int) bool {
	espacio := kernel.K.HiloActual.Espacio
	if espacio == nil {
		return false
	}

	objetivo := c.FetchPageEntry(vpn)

	if objetivo == nil {
		marco := c.marcos.Acquire()
		if marco == -1 {
			marco = c.expulsarVictima()
		}
		if marco == -1 {
			return false
		}

		utils.Traza("Marco físico disponible: %d", marco)

		objetivo = espacio.LoadPageFromDisk(vpn, marco)
		if objetivo == nil {
			c.marcos.Release(marco)
			return false
		}
		c.entradas[marco] = EntradaCoreMap{vpn: vpn, duenio: espacio}

		kernel.K.Stats.FallosPagina++
	}

	c.estrategia.ActualizarPeso(objetivo.MarcoFisico)
	kernel.K.Maquina.Tlb.Cachear(objetivo)
	return true
}

// FetchPageEntry devuelve la entrada de la tabla de páginas del hilo
// actual para vpn, si algún marco la respalda; nil si no está en memoria
func (c *CoreMapManager) FetchPageEntry(vpn int) *maquina.EntradaTraduccion {
	espacio := kernel.K.HiloActual.Espacio
	for i := range c.entradas {
		if c.entradas[i].duenio == espacio && c.entradas[i].vpn == vpn {
			return espacio.GetPageTableEntry(vpn)
		}
	}
	return nil
}

// SyncPage copia los atributos de una entrada de TLB a la tabla de
// páginas del dueño del marco
func (c *CoreMapManager) SyncPage(marco int, vpn int, entradaTLB *maquina.EntradaTraduccion) {
	c.entradas[marco].duenio.SyncPageAttributes(vpn, entradaTLB)
}

// expulsarVictima elige un marco ocupado con la política de reemplazo,
// sincroniza sus atributos, reescribe la página si está sucia y lo
// devuelve listo para reusar
func (c *CoreMapManager) expulsarVictima() int {
	victima := c.estrategia.ElegirVictima()
	entrada := &c.entradas[victima]
	if entrada.duenio == nil {
		return victima
	}

	utils.Traza("Expulsando la página %d del marco %d", entrada.vpn, victima)

	// si la traducción está en el TLB, bajar sus atributos antes de invalidarla
	if entradaTLB := kernel.K.Maquina.Tlb.Invalidar(entrada.vpn); entradaTLB != nil {
		entrada.duenio.SyncPageAttributes(entrada.vpn, entradaTLB)
	}

	entrada.duenio.WritePageToDisk(entrada.vpn, victima)

	if entradaTabla := entrada.duenio.GetPageTableEntry(entrada.vpn); entradaTabla != nil {
		entradaTabla.Valida = false
	}

	c.entradas[victima] = EntradaCoreMap{vpn: -1}
	return victima
}

// Entrada expone el contenido del core map, para verificación
func (c *CoreMapManager) Entrada(marco int) (int, maquina.EspacioUsuario) {
	utils.Assert(marco >= 0 && marco < len(c.entradas), "marco ilegal %d", marco)
	return c.entradas[marco].vpn, c.entradas[marco].duenio
}
