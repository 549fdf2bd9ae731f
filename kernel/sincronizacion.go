package kernel

import (
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Las primitivas de este archivo logran atomicidad deshabilitando las
// interrupciones de la máquina simulada durante la sección crítica y
// restaurando el nivel guardado a la salida. Bloquearse adentro es
// válido: Sleep asume interrupciones deshabilitadas y cede la CPU sin
// rehabilitarlas; se rehabilitan recién al volver del context switch en
// el contexto de otro hilo.

// Semaforo contador clásico con cola de espera FIFO
type Semaforo struct {
	nombre string
	valor  int
	cola   *utils.Lista[*Hilo]
}

func NuevoSemaforo(nombre string, valorInicial int) *Semaforo {
	return &Semaforo{
		nombre: nombre,
		valor:  valorInicial,
		cola:   utils.NuevaLista[*Hilo](),
	}
}

// P espera a que el valor sea positivo y lo decrementa
func (s *Semaforo) P() {
	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	for s.valor == 0 {
		s.cola.Append(K.HiloActual)
		K.HiloActual.Sleep(false)
	}
	s.valor--

	K.Interrupciones.SetLevel(viejo)
}

// V incrementa el valor y despierta a un hilo en espera, si lo hay
func (s *Semaforo) V() {
	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	if !s.cola.EstaVacia() {
		K.Planificador.ReadyToRun(s.cola.RemoverFrente())
	}
	s.valor++

	K.Interrupciones.SetLevel(viejo)
}

func (s *Semaforo) Valor() int {
	return s.valor
}

// Lock con dueño y donación de prioridad: quien espera dona su
// prioridad efectiva al dueño para evitar inversión de prioridades
type Lock struct {
	nombre     string
	tomado     bool
	duenio     *Hilo
	colaEspera *utils.Lista[*Hilo]
}

func NuevoLock(nombre string) *Lock {
	return &Lock{
		nombre:     nombre,
		colaEspera: utils.NuevaLista[*Hilo](),
	}
}

func (l *Lock) Duenio() *Hilo {
	return l.duenio
}

func (l *Lock) EsDelHiloActual() bool {
	return l.duenio == K.HiloActual
}

// Acquire espera a que el lock esté libre y lo toma. Mientras espera,
// dona prioridad al dueño a través de la arista lockDeseado.
func (l *Lock) Acquire() {
	utils.Assert(!l.tomado || !l.EsDelHiloActual(),
		"el hilo %s ya posee el lock %s", K.HiloActual.Nombre(), l.nombre)

	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	for l.tomado {
		K.HiloActual.SetLockDeseado(l)
		l.DonarPrioridadAlDuenio(K.HiloActual)
		l.colaEspera.Append(K.HiloActual)
		K.HiloActual.Sleep(false)
	}

	K.HiloActual.ResetLockDeseado()
	l.tomado = true
	l.duenio = K.HiloActual

	utils.Traza("Lock %s tomado por %s", l.nombre, K.HiloActual.Nombre())

	K.Interrupciones.SetLevel(viejo)
}

// Release libera el lock, descarta la donación que hubiera recibido el
// dueño y despierta a todos los que esperaban. Si el dueño había sido
// donado y hay desalojo, cede la CPU para que corra el de mayor rango.
func (l *Lock) Release() {
	utils.Assert(l.tomado, "Release del lock %s sin tomar", l.nombre)
	utils.Assert(l.EsDelHiloActual(),
		"Release del lock %s por %s, que no es el dueño", l.nombre, K.HiloActual.Nombre())

	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	duenioFueDonado := l.limpiarDonacion()
	for !l.colaEspera.EstaVacia() {
		K.Planificador.ReadyToRun(l.colaEspera.RemoverFrente())
	}

	l.duenio = nil
	l.tomado = false

	utils.Traza("Lock %s liberado", l.nombre)

	K.Interrupciones.SetLevel(viejo)

	if K.Planificador.EsDesalojo() && duenioFueDonado {
		K.HiloActual.Yield()
	}
}

// DonarPrioridadAlDuenio propaga la prioridad del donante al dueño
func (l *Lock) DonarPrioridadAlDuenio(donante *Hilo) {
	K.Planificador.DonatePriority(donante, l.duenio)
}

func (l *Lock) limpiarDonacion() bool {
	return l.duenio.ResetPrioridadEfectiva()
}

// Condicion es una variable de condición con semántica Mesa: el
// señalado debe re-verificar su predicado al despertar
type Condicion struct {
	nombre     string
	colaEspera *utils.Lista[*Hilo]
}

func NuevaCondicion(nombre string) *Condicion {
	return &Condicion{
		nombre:     nombre,
		colaEspera: utils.NuevaLista[*Hilo](),
	}
}

// Wait libera el lock y duerme en un solo paso atómico; al despertar
// re-adquiere el lock fuera de la región con interrupciones apagadas
func (c *Condicion) Wait(lock *Lock) {
	utils.Assert(lock.EsDelHiloActual(), "Wait en %s sin poseer el lock", c.nombre)

	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	c.colaEspera.Append(K.HiloActual)
	lock.Release()
	K.HiloActual.Sleep(false)

	K.Interrupciones.SetLevel(viejo)

	lock.Acquire()
}

// Signal despierta a lo sumo un hilo en espera; el señalador conserva
// el lock y la CPU
func (c *Condicion) Signal(lock *Lock) {
	utils.Assert(lock.EsDelHiloActual(), "Signal en %s sin poseer el lock", c.nombre)

	viejo := K.Interrupciones.SetLevel(maquina.IntOff)

	if !c.colaEspera.EstaVacia() {
		K.Planificador.ReadyToRun(c.colaEspera.RemoverFrente())
	}

	K.Interrupciones.SetLevel(viejo)
}

// Broadcast despierta a todos los hilos en espera
func (c *Condicion) Broadcast(lock *Lock) {
	for !c.colaEspera.EstaVacia() {
		c.Signal(lock)
	}
}

// Mailbox es un buffer de rendezvous de un solo mensaje: Send recién se
// concreta cuando hay un Receive presente
type Mailbox struct {
	nombre                string
	buffer                int
	escribible            bool
	recepcionesPendientes int

	lock       *Lock
	esperaSend *Condicion
	esperaRecv *Condicion
}

func NuevoMailbox(nombre string) *Mailbox {
	return &Mailbox{
		nombre:     nombre,
		escribible: true,
		lock:       NuevoLock("lock " + nombre),
		esperaSend: NuevaCondicion("cv send " + nombre),
		esperaRecv: NuevaCondicion("cv recv " + nombre),
	}
}

// Send deposita el mensaje recién cuando el buffer está escribible y
// hay al menos un receptor esperando
func (m *Mailbox) Send(mensaje int) {
	m.lock.Acquire()

	for !m.escribible || m.recepcionesPendientes == 0 {
		m.esperaSend.Wait(m.lock)
	}

	m.buffer = mensaje
	m.escribible = false

	m.esperaRecv.Signal(m.lock)
	m.lock.Release()
}

// Receive anuncia un receptor, despierta a un Send dormido si lo hay y
// espera el mensaje
func (m *Mailbox) Receive() int {
	m.lock.Acquire()

	m.recepcionesPendientes++
	m.esperaSend.Signal(m.lock)

	for m.escribible {
		m.esperaRecv.Wait(m.lock)
	}

	mensaje := m.buffer
	m.recepcionesPendientes--
	m.escribible = true

	m.lock.Release()
	return mensaje
}
