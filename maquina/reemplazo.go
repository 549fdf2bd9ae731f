package maquina

import "github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"

// EstrategiaReemplazo elige víctimas sobre un espacio fijo de índices
// [0, tam). La usan el TLB manager y el core map.
type EstrategiaReemplazo interface {
	ElegirVictima() int    // índice del elemento a reemplazar
	ActualizarPeso(id int) // el elemento id acaba de usarse
	Reiniciar()            // descarta el estado (context switch)
}

// ReemplazoFIFO recorre los índices con un puntero circular
type ReemplazoFIFO struct {
	tam     int
	puntero int
}

func NuevoReemplazoFIFO(tam int) *ReemplazoFIFO {
	utils.Assert(tam > 0, "estrategia FIFO con tamaño %d", tam)
	return &ReemplazoFIFO{tam: tam}
}

func (r *ReemplazoFIFO) ElegirVictima() int {
	victima := r.puntero
	r.puntero = (r.puntero + 1) % r.tam
	return victima
}

func (r *ReemplazoFIFO) ActualizarPeso(id int) {
	// FIFO no pesa los accesos
}

func (r *ReemplazoFIFO) Reiniciar() {
	r.puntero = 0
}

// ReemplazoLRU registra el tick de último uso por índice y expulsa el mínimo
type ReemplazoLRU struct {
	tam       int
	ultimoUso []int
	stats     *Estadisticas
}

func NuevoReemplazoLRU(tam int, stats *Estadisticas) *ReemplazoLRU {
	utils.Assert(tam > 0, "estrategia LRU con tamaño %d", tam)

	r := &ReemplazoLRU{
		tam:       tam,
		ultimoUso: make([]int, tam),
		stats:     stats,
	}
	r.Reiniciar()
	return r
}

func (r *ReemplazoLRU) ElegirVictima() int {
	victima := 0
	for i := 0; i < r.tam; i++ {
		if r.ultimoUso[i] < r.ultimoUso[victima] {
			victima = i
		}
	}
	return victima
}

func (r *ReemplazoLRU) ActualizarPeso(id int) {
	r.ultimoUso[id] = r.stats.TotalTicks
}

func (r *ReemplazoLRU) Reiniciar() {
	for i := range r.ultimoUso {
		r.ultimoUso[i] = -1
	}
}
