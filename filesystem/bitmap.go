package filesystem

import (
	"fmt"

	"github.com/Workiva/go-datastructures/bitarray"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

const bitsPorByte = 8

// Bitmap de posiciones libres/ocupadas sobre un espacio fijo de bits.
// Lo usan el mapa de sectores libres del disco y el pool de marcos.
type Bitmap struct {
	numBits int
	bits    bitarray.BitArray
}

func NuevoBitmap(numBits int) *Bitmap {
	utils.Assert(numBits > 0, "bitmap de %d bits", numBits)
	return &Bitmap{
		numBits: numBits,
		bits:    bitarray.NewBitArray(uint64(numBits)),
	}
}

func (b *Bitmap) NumBits() int {
	return b.numBits
}

// Mark prende el bit
func (b *Bitmap) Mark(cual int) {
	utils.Assert(cual >= 0 && cual < b.numBits, "Mark del bit ilegal %d", cual)
	if err := b.bits.SetBit(uint64(cual)); err != nil {
		utils.AssertNoAlcanzado("SetBit dentro de rango: " + err.Error())
	}
}

// Clear apaga el bit
func (b *Bitmap) Clear(cual int) {
	utils.Assert(cual >= 0 && cual < b.numBits, "Clear del bit ilegal %d", cual)
	if err := b.bits.ClearBit(uint64(cual)); err != nil {
		utils.AssertNoAlcanzado("ClearBit dentro de rango: " + err.Error())
	}
}

// Test dice si el bit está prendido
func (b *Bitmap) Test(cual int) bool {
	utils.Assert(cual >= 0 && cual < b.numBits, "Test del bit ilegal %d", cual)
	prendido, err := b.bits.GetBit(uint64(cual))
	if err != nil {
		utils.AssertNoAlcanzado("GetBit dentro de rango: " + err.Error())
	}
	return prendido
}

// FindAndSet busca el primer bit apagado, lo prende y devuelve su
// posición, o -1 si no queda ninguno
func (b *Bitmap) FindAndSet() int {
	for i := 0; i < b.numBits; i++ {
		if !b.Test(i) {
			b.Mark(i)
			return i
		}
	}
	return -1
}

// NumClear cuenta los bits apagados
func (b *Bitmap) NumClear() int {
	libres := 0
	for i := 0; i < b.numBits; i++ {
		if !b.Test(i) {
			libres++
		}
	}
	return libres
}

// aBytes serializa al formato de disco: un bit por posición,
// ⌈numBits/8⌉ bytes, bit i en el byte i/8 desplazado i%8
func (b *Bitmap) aBytes() []byte {
	datos := make([]byte, utils.DivRoundUp(b.numBits, bitsPorByte))
	for i := 0; i < b.numBits; i++ {
		if b.Test(i) {
			datos[i/bitsPorByte] |= 1 << (i % bitsPorByte)
		}
	}
	return datos
}

// desdeBytes repone el estado desde el formato de disco
func (b *Bitmap) desdeBytes(datos []byte) {
	utils.Assert(len(datos) >= utils.DivRoundUp(b.numBits, bitsPorByte),
		"bitmap serializado de %d bytes", len(datos))

	for i := 0; i < b.numBits; i++ {
		if datos[i/bitsPorByte]&(1<<(i%bitsPorByte)) != 0 {
			b.Mark(i)
		} else {
			b.Clear(i)
		}
	}
}

// Imprimir vuelca las posiciones prendidas, para depuración
func (b *Bitmap) Imprimir() {
	fmt.Printf("Contenido del bitmap (%d bits):\n", b.numBits)
	for i := 0; i < b.numBits; i++ {
		if b.Test(i) {
			fmt.Printf("%d ", i)
		}
	}
	fmt.Println()
}

// BitmapPersistente es un Bitmap que además se guarda y repone como un
// archivo común del file system
type BitmapPersistente struct {
	*Bitmap
}

func NuevoBitmapPersistente(numBits int) *BitmapPersistente {
	return &BitmapPersistente{Bitmap: NuevoBitmap(numBits)}
}

// FetchFrom repone el bitmap leyendo el archivo que lo persiste
func (b *BitmapPersistente) FetchFrom(archivo *OpenFile) {
	datos := make([]byte, utils.DivRoundUp(b.numBits, bitsPorByte))
	leidos := archivo.ReadAt(datos, 0)
	utils.Assert(leidos == len(datos), "bitmap persistido incompleto: %d bytes", leidos)
	b.desdeBytes(datos)
}

// WriteBack vuelca el bitmap al archivo que lo persiste
func (b *BitmapPersistente) WriteBack(archivo *OpenFile) {
	datos := b.aBytes()
	escritos := archivo.WriteAt(datos, 0)
	utils.Assert(escritos == len(datos), "bitmap persistido incompleto: %d bytes", escritos)
}
