package userprog

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/filesystem"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Números de syscall, según la convención del trap: número en r2,
// argumentos en r4..r7, resultado de vuelta en r2
const (
	SCHalt      = 0
	SCExit      = 1
	SCCreate    = 4
	SCOpen      = 6
	SCRead      = 7
	SCWrite     = 8
	SCClose     = 10
	SCPrintInt  = 11
	SCPrintChar = 12
)

var (
	fs      *filesystem.FileSystem
	consola *ConsolaSalida
)

// Instalar fija los colaboradores que usan las syscalls
func Instalar(sistemaArchivos *filesystem.FileSystem, salida *ConsolaSalida) {
	fs = sistemaArchivos
	consola = salida
}

// ManejarExcepcion es el punto de entrada al kernel desde un programa
// de usuario. Atiende el trap, escribe el resultado en r2 y avanza el
// PC una instrucción (salvo que el hilo termine).
func ManejarExcepcion(cual maquina.TipoExcepcion) {
	m := kernel.K.Maquina

	switch cual {
	case maquina.ExcepcionSyscall:
		atenderSyscall(m)
	default:
		utils.ErrorLog.Error("Excepción de usuario inesperada", "tipo", cual)
		utils.AssertNoAlcanzado(fmt.Sprintf("excepción %d", cual))
	}
}

func atenderSyscall(m *maquina.Maquina) {
	numero := m.ReadRegister(maquina.Reg2)

	switch numero {
	case SCHalt:
		utils.Traza("Halt pedido por programa de usuario")
		kernel.K.Interrupciones.Halt()

	case SCExit:
		estado := m.ReadRegister(maquina.Reg4)
		utils.Traza("(%s) - Exit con código %d", kernel.K.HiloActual.Nombre(), estado)
		kernel.K.HiloActual.Finish()

	case SCCreate:
		atenderCreate(m)
		avanzarPC(m)

	case SCOpen:
		atenderOpen(m)
		avanzarPC(m)

	case SCRead:
		atenderRead(m)
		avanzarPC(m)

	case SCWrite:
		atenderWrite(m)
		avanzarPC(m)

	case SCClose:
		fd := m.ReadRegister(maquina.Reg4)
		if kernel.K.HiloActual.RemoverArchivoAbierto(fd) {
			m.WriteRegister(maquina.Reg2, 0)
		} else {
			m.WriteRegister(maquina.Reg2, -1)
		}
		avanzarPC(m)

	case SCPrintInt:
		consola.PutInt(m.ReadRegister(maquina.Reg4))
		avanzarPC(m)

	case SCPrintChar:
		consola.PutChar(byte(m.ReadRegister(maquina.Reg4)))
		avanzarPC(m)

	default:
		utils.ErrorLog.Error("Syscall desconocida", "numero", numero)
		utils.AssertNoAlcanzado(fmt.Sprintf("syscall %d", numero))
	}
}

func atenderCreate(m *maquina.Maquina) {
	direccion := m.ReadRegister(maquina.Reg4)

	nombre, largo := leerStringDeUsuario(m, direccion, filesystem.PathMaxLen)
	if largo <= 0 {
		utils.Traza("Nombre de archivo ilegal en la dirección %d", direccion)
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	if fs.Create(nombre, filesystem.TamArchivoPorDefecto, false) {
		m.WriteRegister(maquina.Reg2, 0)
	} else {
		m.WriteRegister(maquina.Reg2, -1)
	}
}

func atenderOpen(m *maquina.Maquina) {
	direccion := m.ReadRegister(maquina.Reg4)

	nombre, largo := leerStringDeUsuario(m, direccion, filesystem.PathMaxLen)
	if largo <= 0 {
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	archivo := fs.Open(nombre)
	if archivo == nil {
		utils.Traza("No se pudo abrir %s", nombre)
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	fd := kernel.K.HiloActual.AgregarArchivoAbierto(archivo)
	if fd == -1 {
		// la tabla del hilo está llena: el OpenFile vuelve a reclamarse
		utils.Traza("Sin lugar para otro descriptor de %s", nombre)
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	utils.Traza("Abierto %s con fd %d", nombre, fd)
	m.WriteRegister(maquina.Reg2, fd)
}

func atenderRead(m *maquina.Maquina) {
	direccion := m.ReadRegister(maquina.Reg4)
	cantidad := m.ReadRegister(maquina.Reg5)
	fd := m.ReadRegister(maquina.Reg6)

	archivo := kernel.K.HiloActual.ObtenerArchivoAbierto(fd)
	if archivo == nil || cantidad <= 0 || direccion == 0 {
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	// leer espiando desde la posición actual: si el puntero de usuario
	// resulta inescribible la syscall falla sin efectos, con el cursor
	// del archivo donde estaba
	posicion := archivo.Posicion()
	buf := make([]byte, cantidad)
	leidos := archivo.ReadAt(buf, posicion)

	if !escribirBufferDeUsuario(m, direccion, buf[:leidos]) {
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	archivo.Seek(posicion + leidos)
	m.WriteRegister(maquina.Reg2, leidos)
}

func atenderWrite(m *maquina.Maquina) {
	direccion := m.ReadRegister(maquina.Reg4)
	cantidad := m.ReadRegister(maquina.Reg5)
	fd := m.ReadRegister(maquina.Reg6)

	archivo := kernel.K.HiloActual.ObtenerArchivoAbierto(fd)
	if archivo == nil || cantidad < 0 || direccion == 0 {
		m.WriteRegister(maquina.Reg2, -1)
		return
	}

	buf, ok := leerBufferDeUsuario(m, direccion, cantidad)
	if !ok {
		m.WriteRegister(maquina.Reg2, -1)
		return
	}
	m.WriteRegister(maquina.Reg2, archivo.Write(buf))
}

// leerStringDeUsuario copia un string NUL-terminado desde la memoria de
// usuario, byte a byte a través de la MMU, acotado por limite.
// Devuelve largo -1 si la dirección es 0.
func leerStringDeUsuario(m *maquina.Maquina, direccion int, limite int) (string, int) {
	utils.Assert(limite >= 0, "límite negativo %d", limite)

	if direccion == 0 {
		return "", -1
	}

	buf := make([]byte, 0, limite)
	for i := 0; limite == 0 || i < limite; i++ {
		caracter, ok := m.ReadMem(direccion+i, 1)
		if !ok {
			return "", -1
		}
		if caracter == 0 {
			break
		}
		buf = append(buf, byte(caracter))
	}
	return string(buf), len(buf)
}

// leerBufferDeUsuario copia cantidad bytes desde la memoria de usuario
func leerBufferDeUsuario(m *maquina.Maquina, direccion int, cantidad int) ([]byte, bool) {
	buf := make([]byte, cantidad)
	for i := 0; i < cantidad; i++ {
		valor, ok := m.ReadMem(direccion+i, 1)
		if !ok {
			return nil, false
		}
		buf[i] = byte(valor)
	}
	return buf, true
}

// escribirBufferDeUsuario copia el buffer a la memoria de usuario
func escribirBufferDeUsuario(m *maquina.Maquina, direccion int, buf []byte) bool {
	for i, valor := range buf {
		if !m.WriteMem(direccion+i, 1, int(valor)) {
			return false
		}
	}
	return true
}

// avanzarPC corre (PrevPC, PC, NextPC) una instrucción; sin esto el
// programa repetiría la misma syscall para siempre
func avanzarPC(m *maquina.Maquina) {
	m.WriteRegister(maquina.PrevPCReg, m.ReadRegister(maquina.PCReg))
	m.WriteRegister(maquina.PCReg, m.ReadRegister(maquina.NextPCReg))
	m.WriteRegister(maquina.NextPCReg, m.ReadRegister(maquina.PCReg)+maquina.TamInstruccion)
}
