package filesystem

import (
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
)

func prepararDisco(t *testing.T, numSectores int) {
	t.Helper()
	kernel.Inicializar(kernel.RR, false, nil)
	InstalarDisco(NuevoDiscoEnMemoria(numSectores))
}

func TestFileHeaderAllocate(t *testing.T) {
	prepararDisco(t, 64)
	freeMap := NuevoBitmap(64)

	hdr := NuevoFileHeader()
	if !hdr.Allocate(freeMap, 3*TamSector+10) {
		t.Fatal("Allocate debería alcanzar")
	}

	if hdr.numSectores != 4 {
		t.Errorf("numSectores = %d, esperaba 4", hdr.numSectores)
	}
	if hdr.FileLength() != 3*TamSector+10 {
		t.Errorf("FileLength = %d", hdr.FileLength())
	}
	for i := 0; i < int(hdr.numSectores); i++ {
		if !freeMap.Test(int(hdr.sectoresDatos[i])) {
			t.Errorf("el sector de datos %d no figura reservado", hdr.sectoresDatos[i])
		}
	}
}

func TestFileHeaderAllocateSinEspacio(t *testing.T) {
	prepararDisco(t, 64)
	freeMap := NuevoBitmap(4)

	hdr := NuevoFileHeader()
	if hdr.Allocate(freeMap, 10*TamSector) {
		t.Fatal("Allocate con 4 sectores libres para 10 debería fallar")
	}
	// el rollback del llamador debe poder deshacer lo reservado
	hdr.Deallocate(freeMap)
	if freeMap.NumClear() != 4 {
		t.Errorf("quedaron %d libres tras el rollback, esperaba 4", freeMap.NumClear())
	}
}

func TestFileHeaderRoundTripBitExacto(t *testing.T) {
	prepararDisco(t, 64)
	freeMap := NuevoBitmap(64)
	freeMap.Mark(0) // sector del header

	hdr := NuevoFileHeader()
	if !hdr.Allocate(freeMap, 2*TamSector+1) {
		t.Fatal("Allocate falló")
	}
	hdr.WriteBack(0)

	recargado := NuevoFileHeader()
	recargado.FetchFrom(0)

	if recargado.numBytes != hdr.numBytes {
		t.Errorf("numBytes = %d, esperaba %d", recargado.numBytes, hdr.numBytes)
	}
	if recargado.numSectores != hdr.numSectores {
		t.Errorf("numSectores = %d, esperaba %d", recargado.numSectores, hdr.numSectores)
	}
	if recargado.proximoHeaderSector != hdr.proximoHeaderSector {
		t.Errorf("proximoHeaderSector = %d, esperaba %d",
			recargado.proximoHeaderSector, hdr.proximoHeaderSector)
	}
	for i := 0; i < int(hdr.numSectores); i++ {
		if recargado.sectoresDatos[i] != hdr.sectoresDatos[i] {
			t.Errorf("sectoresDatos[%d] = %d, esperaba %d",
				i, recargado.sectoresDatos[i], hdr.sectoresDatos[i])
		}
	}
}

func TestFileHeaderEncadenado(t *testing.T) {
	numSectores := NumDirect*2 + 100
	prepararDisco(t, numSectores)
	freeMap := NuevoBitmap(numSectores)
	freeMap.Mark(0)

	tam := MaxFileSize + 5*TamSector
	hdr := NuevoFileHeader()
	if !hdr.Allocate(freeMap, tam) {
		t.Fatal("Allocate del archivo encadenado falló")
	}

	if hdr.proximoHeaderSector == -1 || hdr.proximoHeader == nil {
		t.Fatal("un archivo más grande que MaxFileSize debería encadenar headers")
	}
	if hdr.FileLength() != tam {
		t.Errorf("FileLength = %d, esperaba %d", hdr.FileLength(), tam)
	}

	// el ByteToSector del tramo final resuelve contra el segundo eslabón
	sectorFinal := hdr.ByteToSector(MaxFileSize + 2*TamSector)
	if sectorFinal != int(hdr.proximoHeader.sectoresDatos[2]) {
		t.Errorf("ByteToSector cruzando la cadena = %d", sectorFinal)
	}

	hdr.WriteBack(0)
	recargado := NuevoFileHeader()
	recargado.FetchFrom(0)

	if recargado.FileLength() != tam {
		t.Errorf("FileLength recargado = %d, esperaba %d", recargado.FileLength(), tam)
	}
	if recargado.proximoHeader == nil {
		t.Fatal("la cadena no se materializó al recargar")
	}
	if recargado.proximoHeader.numBytes != hdr.proximoHeader.numBytes {
		t.Error("el segundo eslabón difiere tras la recarga")
	}
}

func TestFileHeaderDeallocateDevuelveTodo(t *testing.T) {
	prepararDisco(t, 64)
	freeMap := NuevoBitmap(64)

	libresAntes := freeMap.NumClear()
	hdr := NuevoFileHeader()
	if !hdr.Allocate(freeMap, 5*TamSector) {
		t.Fatal("Allocate falló")
	}
	if freeMap.NumClear() != libresAntes-5 {
		t.Fatalf("NumClear = %d tras reservar 5", freeMap.NumClear())
	}

	hdr.Deallocate(freeMap)
	if freeMap.NumClear() != libresAntes {
		t.Errorf("NumClear = %d tras liberar, esperaba %d", freeMap.NumClear(), libresAntes)
	}
}

func TestFileHeaderDobleDeallocateAborta(t *testing.T) {
	prepararDisco(t, 64)
	freeMap := NuevoBitmap(64)

	hdr := NuevoFileHeader()
	if !hdr.Allocate(freeMap, 2*TamSector) {
		t.Fatal("Allocate falló")
	}
	hdr.Deallocate(freeMap)

	defer func() {
		if recover() == nil {
			t.Error("liberar dos veces el mismo header debería abortar")
		}
	}()
	hdr.Deallocate(freeMap)
}
