package hostiface

/*
#include <stdlib.h>

typedef int (*heliCallback)(char const *name, char const *function, char const *data);

static inline int invokeCallback(heliCallback cb, char const *name, char const *function, char const *data) {
	return cb(name, function, data);
}
*/
import "C"

import "unsafe"

// newCCallback wraps a function pointer registered by the host.
func newCCallback(fn unsafe.Pointer) CallbackFunc {
	cb := C.heliCallback(fn)
	return func(name, function, data string) int {
		cName := C.CString(name)
		defer C.free(unsafe.Pointer(cName))
		cFunction := C.CString(function)
		defer C.free(unsafe.Pointer(cFunction))
		cData := C.CString(data)
		defer C.free(unsafe.Pointer(cData))

		return int(C.invokeCallback(cb, cName, cFunction, cData))
	}
}
