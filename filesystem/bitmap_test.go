package filesystem

import (
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
)

func prepararFS(t *testing.T, numSectores int) *FileSystem {
	t.Helper()
	kernel.Inicializar(kernel.RR, false, nil)
	InstalarDisco(NuevoDiscoEnMemoria(numSectores))
	return NuevoFileSystem(true)
}

func TestBitmapFindAndSet(t *testing.T) {
	b := NuevoBitmap(16)

	if b.NumClear() != 16 {
		t.Fatalf("NumClear = %d, esperaba 16", b.NumClear())
	}

	for esperado := 0; esperado < 16; esperado++ {
		if bit := b.FindAndSet(); bit != esperado {
			t.Errorf("FindAndSet = %d, esperaba %d", bit, esperado)
		}
	}
	if b.FindAndSet() != -1 {
		t.Error("con el bitmap lleno FindAndSet debería devolver -1")
	}

	b.Clear(5)
	if bit := b.FindAndSet(); bit != 5 {
		t.Errorf("FindAndSet después de Clear(5) = %d", bit)
	}
}

func TestBitmapMarkTestClear(t *testing.T) {
	b := NuevoBitmap(64)

	b.Mark(0)
	b.Mark(63)
	if !b.Test(0) || !b.Test(63) {
		t.Error("los bits marcados deberían estar prendidos")
	}
	if b.Test(32) {
		t.Error("un bit sin marcar debería estar apagado")
	}

	b.Clear(63)
	if b.Test(63) {
		t.Error("Clear debería apagar el bit")
	}
	if b.NumClear() != 63 {
		t.Errorf("NumClear = %d, esperaba 63", b.NumClear())
	}
}

func TestBitmapSerializacion(t *testing.T) {
	b := NuevoBitmap(20)
	b.Mark(0)
	b.Mark(7)
	b.Mark(8)
	b.Mark(19)

	datos := b.aBytes()
	if len(datos) != 3 {
		t.Fatalf("serialización de %d bytes, esperaba 3", len(datos))
	}
	// bit i en el byte i/8, desplazado i%8
	if datos[0] != 0x81 || datos[1] != 0x01 || datos[2] != 0x08 {
		t.Errorf("bytes = %x %x %x", datos[0], datos[1], datos[2])
	}

	otro := NuevoBitmap(20)
	otro.desdeBytes(datos)
	for i := 0; i < 20; i++ {
		if otro.Test(i) != b.Test(i) {
			t.Errorf("bit %d difiere tras la recarga", i)
		}
	}
}

func TestBitmapPersistenteRoundTrip(t *testing.T) {
	fs := prepararFS(t, 256)

	if !fs.Create("/mapa", 64, false) {
		t.Fatal("no se pudo crear el archivo de respaldo")
	}
	archivo := fs.Open("/mapa")
	if archivo == nil {
		t.Fatal("no se pudo abrir el archivo de respaldo")
	}

	b := NuevoBitmapPersistente(256)
	b.Mark(3)
	b.Mark(100)
	b.Mark(255)
	b.WriteBack(archivo)

	recargado := NuevoBitmapPersistente(256)
	recargado.FetchFrom(fs.Open("/mapa"))

	for i := 0; i < 256; i++ {
		if recargado.Test(i) != b.Test(i) {
			t.Errorf("bit %d difiere tras persistir y recargar", i)
		}
	}
}
