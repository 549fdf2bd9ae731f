package kernel

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Politica es el algoritmo de ordenamiento de la cola de listos
type Politica int

const (
	RR Politica = iota
	FCFS
	Prioridades
	SJF
)

func (p Politica) String() string {
	switch p {
	case RR:
		return "RR"
	case FCFS:
		return "FCFS"
	case Prioridades:
		return "PRIORIDADES"
	default:
		return "SJF"
	}
}

// Cota de profundidad para cadenas de donación de prioridad; evita
// ciclos entre las aristas lockDeseado/joinDeseado
const maxProfundidadDonacion = 16

type entradaDormido struct {
	hilo   *Hilo
	cuando int
}

// Planificador elige qué hilo corre. Sus operaciones asumen
// interrupciones deshabilitadas por el llamador y la violación es fatal,
// salvo SetSleep, que las deshabilita y restaura por su cuenta, y
// CederCPU, que el timer invoca con interrupciones habilitadas.
type Planificador struct {
	politica Politica
	desalojo bool

	colaReady *utils.ListaOrdenada[*Hilo]
	dormidos  *utils.ListaOrdenada[*entradaDormido]

	// A lo sumo un hilo saliente espera reciclaje tras el context switch
	porDestruir *Hilo
}

func NuevoPlanificador(politica Politica, desalojo bool) *Planificador {
	utils.Assert(!(desalojo && politica == FCFS), "FCFS no admite desalojo")

	p := &Planificador{
		politica: politica,
		desalojo: desalojo,
	}
	p.colaReady = utils.NuevaListaOrdenada(p.CompararHilos)
	p.dormidos = utils.NuevaListaOrdenada(func(a, b *entradaDormido) int {
		return a.cuando - b.cuando
	})
	return p
}

func (p *Planificador) Politica() Politica {
	return p.politica
}

func (p *Planificador) EsDesalojo() bool {
	return p.desalojo
}

// CompararHilos ordena según la política: Prioridades pone primero la
// prioridad más alta (efectiva si hay desalojo), SJF la ráfaga estimada
// más corta; RR y FCFS empatan siempre (orden FIFO de llegada).
func (p *Planificador) CompararHilos(a, b *Hilo) int {
	switch p.politica {
	case Prioridades:
		if p.desalojo {
			return b.PrioridadEfectiva() - a.PrioridadEfectiva()
		}
		return b.Prioridad() - a.Prioridad()
	case SJF:
		switch {
		case a.RafagaEstimada() < b.RafagaEstimada():
			return -1
		case a.RafagaEstimada() > b.RafagaEstimada():
			return 1
		default:
			return 0
		}
	case RR, FCFS:
		return 0
	}
	utils.AssertNoAlcanzado("política de planificación desconocida")
	return 0
}

// ReadyToRun marca el hilo como listo y lo encola según la política
func (p *Planificador) ReadyToRun(h *Hilo) {
	utils.Assert(K.Interrupciones.Nivel() == maquina.IntOff,
		"ReadyToRun requiere interrupciones deshabilitadas")

	utils.Traza("(%s) - Encolado en READY", h.nombre)
	h.setEstado(EstadoReady)
	p.colaReady.Insertar(h)
}

// FindNextToRun devuelve el próximo hilo a despachar, o nil si no hay.
// Con desalojo, el hilo actual conserva la CPU salvo que el frente de
// la cola lo iguale o supere en el orden de la política.
func (p *Planificador) FindNextToRun() *Hilo {
	utils.Assert(K.Interrupciones.Nivel() == maquina.IntOff,
		"FindNextToRun requiere interrupciones deshabilitadas")

	if !p.desalojo {
		if p.colaReady.EstaVacia() {
			return nil
		}
		return p.colaReady.RemoverFrente()
	}

	if K.HiloActual.Estado() == EstadoBloqueado {
		if p.colaReady.EstaVacia() {
			return nil
		}
		return p.colaReady.RemoverFrente()
	}

	if p.colaReady.EstaVacia() {
		return K.HiloActual
	}
	if p.CompararHilos(p.colaReady.Frente(), K.HiloActual) <= 0 {
		return p.colaReady.RemoverFrente()
	}
	return K.HiloActual
}

// Run despacha la CPU al hilo prox. Si finalizando, el hilo saliente
// queda estacionado en porDestruir hasta que el entrante lo recicle.
func (p *Planificador) Run(prox *Hilo, finalizando bool) {
	viejo := K.HiloActual

	utils.Assert(K.Interrupciones.Nivel() == maquina.IntOff,
		"Run requiere interrupciones deshabilitadas")

	if finalizando {
		utils.Assert(p.porDestruir == nil, "porDestruir ya ocupado")
		utils.Assert(prox != viejo, "un hilo no puede finalizar despachándose a sí mismo")
		p.porDestruir = viejo
	}

	if viejo.Espacio != nil {
		viejo.guardarEstadoUsuario()
		viejo.Espacio.SaveState()
	}
	if K.Maquina != nil && K.Maquina.Tlb != nil {
		K.Maquina.Tlb.Limpiar()
	}

	viejo.VerificarDesborde()

	K.HiloActual = prox
	prox.setEstado(EstadoEjecutando)
	prox.ticksInicioRafaga = K.Stats.TicksUsuario

	utils.Traza("Context switch: %s -> %s", viejo.nombre, prox.nombre)

	// SWITCH: se entrega el token de CPU y el saliente se estaciona en
	// su propio canal (o muere, si estaba finalizando)
	if prox != viejo {
		prox.despertar <- struct{}{}
		if finalizando {
			terminarGoroutine()
		}
		<-viejo.despertar
	}

	// de vuelta corriendo en viejo, con interrupciones deshabilitadas
	utils.Assert(K.Interrupciones.Nivel() == maquina.IntOff,
		"retorno de SWITCH con interrupciones habilitadas")

	p.CheckToBeDestroyed()

	if viejo.Espacio != nil {
		viejo.restaurarEstadoUsuario()
		viejo.Espacio.RestoreState()
	}
}

// CheckToBeDestroyed recicla el hilo saliente del último switch, si
// éste estaba finalizando. Nadie puede liberar su propio TCB mientras
// sigue corriendo sobre su stack.
func (p *Planificador) CheckToBeDestroyed() {
	if p.porDestruir != nil {
		utils.Traza("(%s) - TCB reciclado", p.porDestruir.nombre)
		p.porDestruir.stack = nil
		p.porDestruir = nil
	}
}

// SetSleep duerme el hilo actual por la cantidad de ticks indicada
func (p *Planificador) SetSleep(ticks int) {
	utils.Assert(ticks > 0, "SetSleep con %d ticks", ticks)

	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	cuando := K.Stats.TotalTicks + ticks
	p.dormidos.Insertar(&entradaDormido{hilo: K.HiloActual, cuando: cuando})
	utils.Traza("(%s) - Duerme hasta el tick %d", K.HiloActual.nombre, cuando)

	K.HiloActual.Sleep(false)

	K.Interrupciones.SetLevel(viejo)
}

// DespertarDormidos drena, en orden, toda entrada cuyo tick de
// despertar ya pasó. Lo invoca la interrupción de timer.
func (p *Planificador) DespertarDormidos() {
	for !p.dormidos.EstaVacia() {
		frente := p.dormidos.Frente()
		if frente.cuando > K.Stats.TotalTicks {
			break
		}
		p.dormidos.RemoverFrente()
		utils.Traza("(%s) - Despierta en el tick %d", frente.hilo.nombre, K.Stats.TotalTicks)
		p.ReadyToRun(frente.hilo)
	}
}

// ProximoDespertar devuelve el tick del dormido más próximo, o -1
func (p *Planificador) ProximoDespertar() int {
	if p.dormidos.EstaVacia() {
		return -1
	}
	return p.dormidos.Frente().cuando
}

func (p *Planificador) DesalojoHabilitado() bool {
	return p.desalojo
}

// CederCPU la invoca el timer con interrupciones habilitadas
func (p *Planificador) CederCPU() {
	K.HiloActual.Yield()
}

// DonatePriority propaga la prioridad efectiva del donante hacia el
// receptor y, transitivamente, por las aristas lockDeseado/joinDeseado
// hasta punto fijo (con cota de profundidad).
func (p *Planificador) DonatePriority(donante, receptor *Hilo) {
	p.donar(donante, receptor, 0)
}

func (p *Planificador) donar(donante, receptor *Hilo, profundidad int) {
	utils.Assert(K.Interrupciones.Nivel() == maquina.IntOff,
		"DonatePriority requiere interrupciones deshabilitadas")
	utils.Assert(donante != receptor, "donación de %s a sí mismo", donante.nombre)

	if profundidad >= maxProfundidadDonacion {
		return
	}
	if p.CompararHilos(donante, receptor) >= 0 {
		return
	}

	utils.Traza("(%s) dona prioridad %d a (%s)",
		donante.nombre, donante.PrioridadEfectiva(), receptor.nombre)

	receptor.prioridadDonada = donante.PrioridadEfectiva()
	receptor.esDonada = true
	p.UpdateReadyList(receptor)

	if receptor.lockDeseado != nil {
		duenio := receptor.lockDeseado.Duenio()
		if duenio != nil && duenio != receptor {
			p.donar(receptor, duenio, profundidad+1)
		}
	}
	if receptor.joinDeseado != nil && receptor.joinDeseado != receptor {
		p.donar(receptor, receptor.joinDeseado, profundidad+1)
	}
}

// UpdateReadyList reubica al hilo si está encolado, para que la cola
// refleje su nueva prioridad efectiva
func (p *Planificador) UpdateReadyList(h *Hilo) bool {
	utils.Assert(K.Interrupciones.Nivel() == maquina.IntOff,
		"UpdateReadyList requiere interrupciones deshabilitadas")

	if !p.colaReady.EnLista(h) {
		return false
	}
	p.colaReady.Remover(h)
	p.colaReady.Insertar(h)
	return true
}

// Imprimir vuelca la cola de listos, para depuración
func (p *Planificador) Imprimir() {
	fmt.Println("Contenido de la cola de listos:")
	p.colaReady.Aplicar(func(h *Hilo) {
		fmt.Println("  " + h.String())
	})
}
