package hostiface

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"unsafe"
)

// called by the host to get the version of the extension
//
//export HeliUtilsExtensionVersion
func HeliUtilsExtensionVersion(output *C.char, outputsize C.size_t) {
	replyToSyncCall(Version(), output, outputsize)
}

// called by the host with a command and no arguments
//
//export HeliUtilsExtension
func HeliUtilsExtension(output *C.char, outputsize C.size_t, input *C.char) {
	command := C.GoString(input)
	replyToSyncCall(dispatch(command, nil), output, outputsize)
}

// called by the host with a command and string arguments
//
//export HeliUtilsExtensionArgs
func HeliUtilsExtensionArgs(output *C.char, outputsize C.size_t, input *C.char, argv **C.char, argc C.int) {
	command := C.GoString(input)
	args := parseArgsFromC(argv, argc)
	replyToSyncCall(dispatch(command, args), output, outputsize)
}

// called by the host once to register the function used for callbacks
//
//export HeliUtilsRegisterCallback
func HeliUtilsRegisterCallback(fn unsafe.Pointer) {
	if fn == nil {
		SetCallback(nil)
		return
	}
	SetCallback(newCCallback(fn))
}

// parseArgsFromC converts C argv array to Go string slice
func parseArgsFromC(argv **C.char, argc C.int) []string {
	if argc <= 0 || argv == nil {
		return nil
	}
	ptrs := unsafe.Slice(argv, int(argc))
	data := make([]string, 0, len(ptrs))
	for _, p := range ptrs {
		data = append(data, C.GoString(p))
	}
	return data
}

// replyToSyncCall copies response into the host's output buffer, truncating
// to outputsize including the terminating NUL.
func replyToSyncCall(response string, output *C.char, outputsize C.size_t) {
	if output == nil || outputsize == 0 {
		return
	}
	result := C.CString(response)
	defer C.free(unsafe.Pointer(result))
	var size = C.strlen(result) + 1
	if size > outputsize {
		size = outputsize
	}
	C.memmove(unsafe.Pointer(output), unsafe.Pointer(result), size)
	// always terminate a truncated reply
	*(*C.char)(unsafe.Add(unsafe.Pointer(output), size-1)) = 0
}
