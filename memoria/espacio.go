package memoria

import (
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/filesystem"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// EspacioDirecciones es el espacio de usuario de un hilo: su tabla de
// páginas y el ejecutable (imagen plana dentro del file system) que lo
// respalda. Las páginas se cargan por demanda cuando el core map las
// pide; las sucias vuelven al mismo archivo al ser expulsadas.
type EspacioDirecciones struct {
	nombre       string
	tablaPaginas []maquina.EntradaTraduccion
	numPaginas   int
	ejecutable   *filesystem.OpenFile
}

// NuevoEspacio abre el ejecutable y dimensiona la tabla de páginas.
// Devuelve nil si el archivo no existe en el file system.
func NuevoEspacio(fs *filesystem.FileSystem, ruta string) *EspacioDirecciones {
	ejecutable := fs.Open(ruta)
	if ejecutable == nil {
		utils.ErrorLog.Error("No existe el ejecutable", "ruta", ruta)
		return nil
	}

	numPaginas := utils.DivRoundUp(ejecutable.Length(), maquina.TamPagina)
	if numPaginas == 0 {
		numPaginas = 1
	}

	e := &EspacioDirecciones{
		nombre:       ruta,
		tablaPaginas: make([]maquina.EntradaTraduccion, numPaginas),
		numPaginas:   numPaginas,
		ejecutable:   ejecutable,
	}
	for i := range e.tablaPaginas {
		e.tablaPaginas[i].PaginaVirtual = i
		e.tablaPaginas[i].Valida = false
	}

	utils.InfoLog.Info("Espacio de direcciones creado", "ejecutable", ruta, "paginas", numPaginas)
	return e
}

func (e *EspacioDirecciones) NumPaginas() int {
	return e.numPaginas
}

// SaveState no guarda nada: el planificador limpia el TLB en cada
// context switch y las páginas quedan en el core map
func (e *EspacioDirecciones) SaveState() {}

// RestoreState no repone nada: el TLB se rellena por demanda
func (e *EspacioDirecciones) RestoreState() {}

// LoadPageFromDisk copia la página vpn del ejecutable al marco indicado
// y deja la entrada de la tabla apuntando ahí
func (e *EspacioDirecciones) LoadPageFromDisk(vpn int, marco int) *maquina.EntradaTraduccion {
	if vpn < 0 || vpn >= e.numPaginas {
		return nil
	}

	utils.Traza("Cargando página %d en el marco %d", vpn, marco)

	ram := kernel.K.Maquina.RAM
	base := marco * maquina.TamPagina
	pagina := ram[base : base+maquina.TamPagina]

	// lo que el archivo no cubra queda en cero
	for i := range pagina {
		pagina[i] = 0
	}
	e.ejecutable.ReadAt(pagina, vpn*maquina.TamPagina)

	entrada := &e.tablaPaginas[vpn]
	entrada.MarcoFisico = marco
	entrada.Valida = true
	entrada.SoloLectura = false
	entrada.Uso = false
	entrada.Sucia = false
	return entrada
}

// WritePageToDisk reescribe la página al ejecutable si está sucia
func (e *EspacioDirecciones) WritePageToDisk(vpn int, marco int) {
	if vpn < 0 || vpn >= e.numPaginas {
		return
	}
	if !e.tablaPaginas[vpn].Sucia {
		return
	}

	utils.Traza("Reescribiendo página sucia %d desde el marco %d", vpn, marco)

	ram := kernel.K.Maquina.RAM
	base := marco * maquina.TamPagina
	e.ejecutable.WriteAt(ram[base:base+maquina.TamPagina], vpn*maquina.TamPagina)
	e.tablaPaginas[vpn].Sucia = false
}

// SyncPageAttributes baja los bits de uso y modificación de una entrada
// de TLB a la tabla de páginas
func (e *EspacioDirecciones) SyncPageAttributes(vpn int, entrada *maquina.EntradaTraduccion) {
	if vpn < 0 || vpn >= e.numPaginas {
		return
	}
	e.tablaPaginas[vpn].Uso = entrada.Uso
	e.tablaPaginas[vpn].Sucia = e.tablaPaginas[vpn].Sucia || entrada.Sucia
}

// GetPageTableEntry devuelve la entrada de la tabla para vpn, o nil
func (e *EspacioDirecciones) GetPageTableEntry(vpn int) *maquina.EntradaTraduccion {
	if vpn < 0 || vpn >= e.numPaginas {
		return nil
	}
	return &e.tablaPaginas[vpn]
}

// Ejecutar arranca el programa: inicializa registros y le entrega la
// CPU al intérprete externo. Cuando éste devuelve, el hilo termina.
func (e *EspacioDirecciones) Ejecutar() {
	m := kernel.K.Maquina

	m.WriteRegister(maquina.PCReg, 0)
	m.WriteRegister(maquina.NextPCReg, maquina.TamInstruccion)
	m.WriteRegister(maquina.StackReg, e.numPaginas*maquina.TamPagina-16)

	if m.Interprete == nil {
		utils.ErrorLog.Error("No hay CPU instalada para ejecutar programas de usuario", "ejecutable", e.nombre)
		return
	}
	m.Interprete.Ejecutar(m)
}
