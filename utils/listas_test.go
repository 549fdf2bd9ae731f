package utils

import "testing"

func TestListaFIFO(t *testing.T) {
	l := NuevaLista[int]()

	if !l.EstaVacia() {
		t.Fatal("la lista nueva debería estar vacía")
	}

	l.Append(1)
	l.Append(2)
	l.Append(3)

	if l.Longitud() != 3 {
		t.Fatalf("longitud = %d, esperaba 3", l.Longitud())
	}
	if !l.EnLista(2) {
		t.Error("2 debería estar en la lista")
	}
	if l.EnLista(9) {
		t.Error("9 no debería estar en la lista")
	}

	if frente := l.RemoverFrente(); frente != 1 {
		t.Errorf("frente = %d, esperaba 1", frente)
	}
	if frente := l.RemoverFrente(); frente != 2 {
		t.Errorf("frente = %d, esperaba 2", frente)
	}
}

func TestListaRemover(t *testing.T) {
	l := NuevaLista[string]()
	l.Append("a")
	l.Append("b")
	l.Append("c")

	if !l.Remover("b") {
		t.Fatal("Remover(b) debería devolver true")
	}
	if l.Remover("b") {
		t.Fatal("Remover(b) repetido debería devolver false")
	}

	if l.RemoverFrente() != "a" || l.RemoverFrente() != "c" {
		t.Error("el orden de los restantes debería ser a, c")
	}
}

func TestListaOrdenadaInserta(t *testing.T) {
	l := NuevaListaOrdenada(func(a, b int) int { return a - b })

	l.Insertar(5)
	l.Insertar(1)
	l.Insertar(3)

	esperados := []int{1, 3, 5}
	for _, esperado := range esperados {
		if frente := l.RemoverFrente(); frente != esperado {
			t.Errorf("frente = %d, esperaba %d", frente, esperado)
		}
	}
}

type conEtiqueta struct {
	clave    int
	etiqueta string
}

// los empates deben conservar el orden FIFO de llegada
func TestListaOrdenadaEmpatesFIFO(t *testing.T) {
	l := NuevaListaOrdenada(func(a, b *conEtiqueta) int { return a.clave - b.clave })

	primero := &conEtiqueta{1, "primero"}
	segundo := &conEtiqueta{1, "segundo"}
	tercero := &conEtiqueta{0, "tercero"}

	l.Insertar(primero)
	l.Insertar(segundo)
	l.Insertar(tercero)

	if e := l.RemoverFrente(); e != tercero {
		t.Errorf("frente = %s, esperaba tercero", e.etiqueta)
	}
	if e := l.RemoverFrente(); e != primero {
		t.Errorf("frente = %s, esperaba primero", e.etiqueta)
	}
	if e := l.RemoverFrente(); e != segundo {
		t.Errorf("frente = %s, esperaba segundo", e.etiqueta)
	}
}

func TestDivRoundUp(t *testing.T) {
	casos := []struct{ n, d, esperado int }{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
	}
	for _, caso := range casos {
		if r := DivRoundUp(caso.n, caso.d); r != caso.esperado {
			t.Errorf("DivRoundUp(%d, %d) = %d, esperaba %d", caso.n, caso.d, r, caso.esperado)
		}
	}
}
