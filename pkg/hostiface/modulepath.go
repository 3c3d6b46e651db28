package hostiface

/*
#cgo windows LDFLAGS: -lpsapi
#cgo linux LDFLAGS: -ldl

#include <stdlib.h>

#ifdef _WIN32
#define WIN32_LEAN_AND_MEAN
#include <windows.h>

char* heliModulePath() {
    HMODULE module = NULL;
    if (!GetModuleHandleExA(GET_MODULE_HANDLE_EX_FLAG_FROM_ADDRESS |
                            GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT,
                            (LPCSTR)heliModulePath, &module)) {
        return NULL;
    }
    for (DWORD size = MAX_PATH; size <= 32768; size *= 2) {
        char* buf = (char*)malloc(size);
        if (!buf) {
            return NULL;
        }
        DWORD n = GetModuleFileNameA(module, buf, size);
        if (n > 0 && n < size) {
            return buf;
        }
        free(buf);
        if (n == 0) {
            return NULL;
        }
    }
    return NULL;
}

#elif defined(__linux__)
#define _GNU_SOURCE
#include <dlfcn.h>
#include <string.h>

char* heliModulePath() {
    Dl_info info;
    if (dladdr((void*)heliModulePath, &info) == 0 || info.dli_fname == NULL) {
        return NULL;
    }
    return strdup(info.dli_fname);
}

#else
char* heliModulePath() {
    return NULL;
}
#endif
*/
import "C"

import "unsafe"

// GetModulePath returns the path of the shared library the extension was
// loaded from, or "" when it cannot be determined.
func GetModulePath() string {
	p := C.heliModulePath()
	if p == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(p))
	return C.GoString(p)
}
