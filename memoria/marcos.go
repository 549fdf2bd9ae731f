package memoria

import (
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/filesystem"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
)

// FrameManager reparte los marcos de memoria física. Es el único
// recurso protegido por un Lock explícito: varios hilos del kernel
// pueden competir por marcos.
type FrameManager struct {
	bitmapUso *filesystem.Bitmap
	lock      *kernel.Lock
	numMarcos int
}

func NuevoFrameManager(numMarcos int) *FrameManager {
	return &FrameManager{
		bitmapUso: filesystem.NuevoBitmap(numMarcos),
		lock:      kernel.NuevoLock("lock de marcos"),
		numMarcos: numMarcos,
	}
}

// Acquire reserva atómicamente un marco libre, o devuelve -1
func (f *FrameManager) Acquire() int {
	f.lock.Acquire()
	marco := f.bitmapUso.FindAndSet()
	f.lock.Release()
	return marco
}

// Release devuelve un marco al pool
func (f *FrameManager) Release(marco int) {
	f.lock.Acquire()
	f.bitmapUso.Clear(marco)
	f.lock.Release()
}

// NumMarcosLibres cuenta los marcos disponibles
func (f *FrameManager) NumMarcosLibres() int {
	f.lock.Acquire()
	libres := f.bitmapUso.NumClear()
	f.lock.Release()
	return libres
}
