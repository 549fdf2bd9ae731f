package userprog

import (
	"fmt"
	"io"
	"os"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
)

// ConsolaSalida serializa la salida a consola entre hilos del kernel.
// El dispositivo de consola en sí es un colaborador externo; acá sólo
// vive el contrato sincronizado que usan las syscalls de impresión.
type ConsolaSalida struct {
	salida io.Writer
	lock   *kernel.Lock
}

func NuevaConsolaSalida(salida io.Writer) *ConsolaSalida {
	if salida == nil {
		salida = os.Stdout
	}
	return &ConsolaSalida{
		salida: salida,
		lock:   kernel.NuevoLock("lock consola"),
	}
}

// PutChar imprime un carácter
func (c *ConsolaSalida) PutChar(caracter byte) {
	c.lock.Acquire()
	fmt.Fprintf(c.salida, "%c", caracter)
	kernel.K.Stats.CaracteresConsola++
	c.lock.Release()
}

// PutInt imprime un entero con salto de línea
func (c *ConsolaSalida) PutInt(valor int) {
	c.lock.Acquire()
	texto := fmt.Sprintf("%d\n", valor)
	fmt.Fprint(c.salida, texto)
	kernel.K.Stats.CaracteresConsola += len(texto)
	c.lock.Release()
}
