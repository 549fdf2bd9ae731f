package utils

import "fmt"

// Assert aborta el simulador si la condición no se cumple. Las
// violaciones de invariantes del kernel no son recuperables.
func Assert(condicion bool, formato string, args ...interface{}) {
	if condicion {
		return
	}

	mensaje := fmt.Sprintf(formato, args...)
	if ErrorLog != nil {
		ErrorLog.Error("ASERCIÓN FALLIDA", "detalle", mensaje)
	}
	panic("aserción fallida: " + mensaje)
}

// AssertNoAlcanzado marca un camino de código que nunca debería ejecutarse
func AssertNoAlcanzado(detalle string) {
	Assert(false, "código inalcanzable: %s", detalle)
}
