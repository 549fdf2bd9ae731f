package maquina

import (
	"os"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// NivelInt es el nivel de interrupciones de la máquina simulada.
// Con un solo hilo corriendo a la vez, deshabilitar interrupciones es
// la única exclusión mutua que necesita el kernel.
type NivelInt int

const (
	IntOff NivelInt = iota
	IntOn
)

// Duración en ticks de cada avance del reloj simulado
const (
	TickUsuario = 1
	TickSistema = 10
	TicksTimer  = 100 // período del timer que despierta dormidos y desaloja
)

// ManejadorTimer es el contrato que el planificador le da al subsistema
// de interrupciones para atender el timer simulado.
type ManejadorTimer interface {
	DespertarDormidos()    // drena la sleep list vencida
	ProximoDespertar() int // tick del próximo dormido, -1 si no hay
	DesalojoHabilitado() bool
	CederCPU() // yield del hilo actual, se invoca con interrupciones habilitadas
}

type Interrupciones struct {
	nivel     NivelInt
	stats     *Estadisticas
	manejador ManejadorTimer

	desalojoPendiente bool
	enManejador       bool
}

func NuevasInterrupciones(stats *Estadisticas) *Interrupciones {
	return &Interrupciones{
		nivel: IntOff,
		stats: stats,
	}
}

func (i *Interrupciones) InstalarManejadorTimer(m ManejadorTimer) {
	i.manejador = m
}

func (i *Interrupciones) Nivel() NivelInt {
	return i.nivel
}

// SetLevel cambia el nivel y devuelve el anterior. Habilitar
// interrupciones hace avanzar el reloj simulado un tick de sistema.
func (i *Interrupciones) SetLevel(nuevo NivelInt) NivelInt {
	viejo := i.nivel
	i.nivel = nuevo

	if viejo == IntOff && nuevo == IntOn && !i.enManejador {
		i.OneTick(TickSistema, false)
	}
	return viejo
}

func (i *Interrupciones) Habilitar() {
	i.SetLevel(IntOn)
}

// OneTick avanza el reloj simulado. Si el avance cruza un período del
// timer, se atiende la interrupción de reloj: despertar dormidos y,
// en modo desalojo, ceder la CPU al volver a nivel IntOn.
func (i *Interrupciones) OneTick(ticks int, usuario bool) {
	anterior := i.stats.TotalTicks
	i.stats.TotalTicks += ticks
	if usuario {
		i.stats.TicksUsuario += ticks
	} else {
		i.stats.TicksSistema += ticks
	}

	if i.manejador == nil || i.enManejador {
		return
	}

	if anterior/TicksTimer != i.stats.TotalTicks/TicksTimer {
		i.atenderTimer()
	}
}

func (i *Interrupciones) atenderTimer() {
	i.enManejador = true
	nivelPrevio := i.nivel
	i.nivel = IntOff

	i.manejador.DespertarDormidos()
	if i.manejador.DesalojoHabilitado() {
		i.desalojoPendiente = true
	}

	i.nivel = nivelPrevio
	i.enManejador = false

	if i.desalojoPendiente && i.nivel == IntOn {
		i.desalojoPendiente = false
		i.manejador.CederCPU()
	}
}

// Idle se invoca cuando no hay ningún hilo listo. Salta el reloj hasta
// el próximo despertar pendiente; si no hay nada pendiente la simulación
// no tiene futuro posible y la máquina se detiene.
func (i *Interrupciones) Idle() {
	utils.Assert(i.nivel == IntOff, "Idle requiere interrupciones deshabilitadas")

	prox := -1
	if i.manejador != nil {
		prox = i.manejador.ProximoDespertar()
	}
	if prox < 0 {
		utils.InfoLog.Info("Sin hilos listos ni dormidos, deteniendo la máquina")
		i.Halt()
	}

	if prox > i.stats.TotalTicks {
		i.stats.TicksIdle += prox - i.stats.TotalTicks
		i.stats.TotalTicks = prox
	}
	i.manejador.DespertarDormidos()
}

// Halt detiene la simulación e imprime las estadísticas acumuladas
func (i *Interrupciones) Halt() {
	utils.InfoLog.Info("Máquina detenida por Halt")
	i.stats.Imprimir()
	os.Exit(0)
}
