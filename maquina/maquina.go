package maquina

import (
	"encoding/binary"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Registros de la CPU MIPS simulada. La CPU que interpreta
// instrucciones es un colaborador externo; el kernel sólo necesita el
// banco de registros y la MMU para atender syscalls y fallos.
const (
	Reg2 = 2 // número de syscall / resultado
	Reg4 = 4 // primer argumento
	Reg5 = 5
	Reg6 = 6
	Reg7 = 7

	StackReg   = 29
	RetAddrReg = 31

	HiReg        = 32
	LoReg        = 33
	PCReg        = 34
	NextPCReg    = 35
	PrevPCReg    = 36
	LoadReg      = 37
	LoadValueReg = 38
	BadVAddrReg  = 39

	NumTotalRegs = 40
)

// Tamaño en bytes de una instrucción MIPS
const TamInstruccion = 4

// TipoExcepcion identifica por qué la CPU trapeó al kernel
type TipoExcepcion int

const (
	SinExcepcion TipoExcepcion = iota
	ExcepcionSyscall
	ExcepcionFalloPagina
	ExcepcionSoloLectura
	ExcepcionDireccion
)

// Interprete es el contrato de la CPU externa: ejecuta instrucciones
// hasta la próxima excepción. Fuera del alcance del kernel.
type Interprete interface {
	Ejecutar(m *Maquina)
}

// Maquina agrupa el estado de hardware simulado que el kernel sí posee:
// registros, memoria física y TLB. Las traducciones que el TLB no tiene
// se resuelven pidiéndoselas al core map vía ManejadorFalloPagina.
type Maquina struct {
	registros [NumTotalRegs]int

	RAM              []byte
	NumMarcosFisicos int
	Tlb              *TLBManager

	// ManejadorFalloPagina la instala el bootstrap: apunta a
	// CoreMapManager.PushEntryToTLB. Devuelve false si el vpn es ilegal.
	ManejadorFalloPagina func(vpn int) bool

	// Interprete es la CPU externa que ejecuta instrucciones MIPS
	Interprete Interprete

	// ManejadorExcepcion lo invoca el intérprete cuando el programa de
	// usuario trapea al kernel
	ManejadorExcepcion func(cual TipoExcepcion)

	PasoAPaso bool // -s: un paso por vez
}

func NuevaMaquina(numMarcos int, tlb *TLBManager, pasoAPaso bool) *Maquina {
	return &Maquina{
		RAM:              make([]byte, numMarcos*TamPagina),
		NumMarcosFisicos: numMarcos,
		Tlb:              tlb,
		PasoAPaso:        pasoAPaso,
	}
}

func (m *Maquina) ReadRegister(numero int) int {
	utils.Assert(numero >= 0 && numero < NumTotalRegs, "registro ilegal %d", numero)
	return m.registros[numero]
}

func (m *Maquina) WriteRegister(numero int, valor int) {
	utils.Assert(numero >= 0 && numero < NumTotalRegs, "registro ilegal %d", numero)
	m.registros[numero] = valor
}

// Traducir resuelve una dirección virtual a física a través del TLB.
// Ante un MISS le pide al core map que cargue y cachee la traducción y
// reintenta una única vez.
func (m *Maquina) Traducir(direccion int, escritura bool) (int, bool) {
	if direccion < 0 {
		return 0, false
	}

	vpn := direccion / TamPagina
	desplazamiento := direccion % TamPagina

	entrada := m.Tlb.Buscar(vpn)
	if entrada == nil {
		utils.Traza("TLB MISS - Página: %d", vpn)
		if m.ManejadorFalloPagina == nil || !m.ManejadorFalloPagina(vpn) {
			return 0, false
		}
		entrada = m.Tlb.Buscar(vpn)
		if entrada == nil {
			return 0, false
		}
	} else {
		utils.Traza("TLB HIT - Página: %d", vpn)
	}

	if escritura && entrada.SoloLectura {
		return 0, false
	}

	entrada.Uso = true
	if escritura {
		entrada.Sucia = true
	}

	fisica := entrada.MarcoFisico*TamPagina + desplazamiento
	if fisica < 0 || fisica >= len(m.RAM) {
		return 0, false
	}
	return fisica, true
}

// ReadMem lee un valor de 1, 2 o 4 bytes de la memoria de usuario.
// Devuelve false si la dirección no se puede traducir.
func (m *Maquina) ReadMem(direccion int, tam int) (int, bool) {
	utils.Assert(tam == 1 || tam == 2 || tam == 4, "lectura de %d bytes", tam)

	fisica, ok := m.Traducir(direccion, false)
	if !ok || fisica+tam > len(m.RAM) {
		return 0, false
	}

	switch tam {
	case 1:
		return int(m.RAM[fisica]), true
	case 2:
		return int(binary.LittleEndian.Uint16(m.RAM[fisica:])), true
	default:
		return int(int32(binary.LittleEndian.Uint32(m.RAM[fisica:]))), true
	}
}

// WriteMem escribe un valor de 1, 2 o 4 bytes en la memoria de usuario
func (m *Maquina) WriteMem(direccion int, tam int, valor int) bool {
	utils.Assert(tam == 1 || tam == 2 || tam == 4, "escritura de %d bytes", tam)

	fisica, ok := m.Traducir(direccion, true)
	if !ok || fisica+tam > len(m.RAM) {
		return false
	}

	switch tam {
	case 1:
		m.RAM[fisica] = byte(valor)
	case 2:
		binary.LittleEndian.PutUint16(m.RAM[fisica:], uint16(valor))
	default:
		binary.LittleEndian.PutUint32(m.RAM[fisica:], uint32(valor))
	}
	return true
}
