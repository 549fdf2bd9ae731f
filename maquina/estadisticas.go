package maquina

import "fmt"

// Estadisticas lleva los contadores de la simulación. El tiempo es
// simulado: avanza de a ticks cuando se habilitan interrupciones, cuando
// la CPU ejecuta en modo usuario o cuando el sistema queda idle.
type Estadisticas struct {
	TotalTicks   int
	TicksIdle    int
	TicksSistema int
	TicksUsuario int

	LecturasDisco     int
	EscriturasDisco   int
	CaracteresConsola int
	FallosPagina      int
}

func NuevasEstadisticas() *Estadisticas {
	return &Estadisticas{}
}

// Imprimir vuelca los contadores al finalizar la simulación
func (e *Estadisticas) Imprimir() {
	fmt.Printf("Ticks: total %d, idle %d, sistema %d, usuario %d\n",
		e.TotalTicks, e.TicksIdle, e.TicksSistema, e.TicksUsuario)
	fmt.Printf("Disco E/S: lecturas %d, escrituras %d\n",
		e.LecturasDisco, e.EscriturasDisco)
	fmt.Printf("Consola E/S: caracteres %d\n", e.CaracteresConsola)
	fmt.Printf("Paginación: fallos de página %d\n", e.FallosPagina)
}
