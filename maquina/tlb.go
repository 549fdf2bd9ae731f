package maquina

import (
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Cantidad de entradas del TLB
const TamTLB = 4

// TLBManager es la caché asociativa de traducciones. La elección de
// víctima cuando está lleno se delega en la estrategia de reemplazo.
type TLBManager struct {
	entradas   []EntradaTraduccion
	estrategia EstrategiaReemplazo
}

func NuevoTLBManager(tam int, estrategia EstrategiaReemplazo) *TLBManager {
	utils.Assert(tam > 0, "TLB con tamaño %d", tam)

	t := &TLBManager{
		entradas:   make([]EntradaTraduccion, tam),
		estrategia: estrategia,
	}
	for i := range t.entradas {
		t.entradas[i].Valida = false
		t.entradas[i].Sucia = false
	}
	return t
}

// Buscar devuelve la entrada válida que traduce vpn, o nil si es MISS.
// Un HIT refresca el peso de la entrada en la estrategia de reemplazo.
func (t *TLBManager) Buscar(vpn int) *EntradaTraduccion {
	for i := range t.entradas {
		if t.entradas[i].Valida && t.entradas[i].PaginaVirtual == vpn {
			t.estrategia.ActualizarPeso(i)
			return &t.entradas[i]
		}
	}
	return nil
}

// Cachear copia la traducción a un slot del TLB y la marca válida
func (t *TLBManager) Cachear(entrada *EntradaTraduccion) {
	slot := t.buscarSlot()
	t.entradas[slot] = *entrada
	t.entradas[slot].Valida = true
	t.estrategia.ActualizarPeso(slot)

	utils.Traza("TLB [%d] cachea página: %d", slot, entrada.PaginaVirtual)
}

// Invalidar borra la entrada que traduce vpn, si está cacheada.
// Devuelve la entrada expulsada para que el dueño sincronice atributos.
func (t *TLBManager) Invalidar(vpn int) *EntradaTraduccion {
	for i := range t.entradas {
		if t.entradas[i].Valida && t.entradas[i].PaginaVirtual == vpn {
			t.entradas[i].Valida = false
			return &t.entradas[i]
		}
	}
	return nil
}

// Limpiar invalida todo el TLB; se llama en cada context switch
func (t *TLBManager) Limpiar() {
	t.estrategia.Reiniciar()
	for i := range t.entradas {
		t.entradas[i].Valida = false
		t.entradas[i].Sucia = false
	}
}

// buscarSlot devuelve el primer slot inválido o, con el TLB lleno,
// la víctima que elija la estrategia
func (t *TLBManager) buscarSlot() int {
	for i := range t.entradas {
		if !t.entradas[i].Valida {
			return i
		}
	}
	return t.estrategia.ElegirVictima()
}
