// Command libliftplan builds the C library:
//
//	go build -buildmode=c-shared -o libliftplan.so ./cmd/libliftplan
//
// Every lp_* call returns an LPResult. Release it with lp_free_result once.
// Input strings stay owned by the caller and are never freed here.
package main

/*
#include <stdbool.h>
#include <stdlib.h>

typedef struct {
	bool success;
	char *data;
	char *error;
} LPResult;
*/
import "C"

import (
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/ffi"
	"context"
	"log"
	"unsafe"
)

var (
	session = ffi.NewSession()
	ledger  = ffi.NewLedger()
)

func main() {}

func cString(data []byte) *C.char {
	if data == nil {
		return nil
	}
	p := C.CString(string(data))
	ledger.Track(uintptr(unsafe.Pointer(p)))
	return p
}

func result(env bridge.Envelope) C.LPResult {
	r := ffi.Flatten(env)
	return C.LPResult{
		success: C.bool(r.Success),
		data:    cString(r.Data),
		error:   cString(r.Error),
	}
}

// input copies a caller string. NULL stays nil.
func input(p *C.char) []byte {
	if p == nil {
		return nil
	}
	return []byte(C.GoString(p))
}

func release(p *C.char) {
	if p == nil {
		return
	}
	if !ledger.Release(uintptr(unsafe.Pointer(p))) {
		log.Printf("WARN: liftplan: ignoring release of unknown or already released buffer %p", p)
		return
	}
	C.free(unsafe.Pointer(p))
}

//export lp_free_string
func lp_free_string(p *C.char) {
	release(p)
}

//export lp_free_result
func lp_free_result(r C.LPResult) {
	release(r.data)
	release(r.error)
}

//export lp_live_allocations
func lp_live_allocations() C.int {
	return C.int(ledger.Live())
}

//export lp_init
func lp_init(configDir *C.char) C.LPResult {
	return result(session.Init(context.Background(), C.GoString(configDir)))
}

//export lp_shutdown
func lp_shutdown() {
	session.Close()
}

//export lp_plan_new
func lp_plan_new() C.LPResult {
	return result(session.Bridge().NewPlan())
}

//export lp_plan_open
func lp_plan_open(path *C.char) C.LPResult {
	return result(session.Bridge().OpenPlan(context.Background(), C.GoString(path)))
}

//export lp_plan_save
func lp_plan_save(plan, path *C.char) C.LPResult {
	return result(session.Bridge().SavePlan(context.Background(), input(plan), C.GoString(path)))
}

//export lp_plan_save_draft
func lp_plan_save_draft(plan *C.char) C.LPResult {
	return result(session.Bridge().SaveDraft(context.Background(), input(plan)))
}

//export lp_plan_validate
func lp_plan_validate(plan *C.char) C.LPResult {
	return result(session.Bridge().ValidatePlan(input(plan)))
}

//export lp_plan_diff
func lp_plan_diff(from, to *C.char) C.LPResult {
	return result(session.Bridge().DiffPlans(input(from), input(to)))
}

//export lp_segment_add
func lp_segment_add(plan *C.char, day C.int, segment *C.char) C.LPResult {
	return result(session.Bridge().AddSegment(input(plan), int(day), input(segment)))
}

//export lp_segment_remove
func lp_segment_remove(plan *C.char, day, index C.int) C.LPResult {
	return result(session.Bridge().RemoveSegment(input(plan), int(day), int(index)))
}

//export lp_segment_update
func lp_segment_update(plan *C.char, day, index C.int, segment *C.char) C.LPResult {
	return result(session.Bridge().UpdateSegment(input(plan), int(day), int(index), input(segment)))
}

//export lp_day_add
func lp_day_add(plan, day *C.char) C.LPResult {
	return result(session.Bridge().AddDay(input(plan), input(day)))
}

//export lp_day_remove
func lp_day_remove(plan *C.char, index C.int) C.LPResult {
	return result(session.Bridge().RemoveDay(input(plan), int(index)))
}

//export lp_day_move
func lp_day_move(plan *C.char, from, to C.int) C.LPResult {
	return result(session.Bridge().MoveDay(input(plan), int(from), int(to)))
}

//export lp_groups_get
func lp_groups_get(plan *C.char) C.LPResult {
	return result(session.Bridge().GetGroups(input(plan)))
}

//export lp_group_add
func lp_group_add(plan, name, codes *C.char) C.LPResult {
	return result(session.Bridge().AddGroup(input(plan), C.GoString(name), input(codes)))
}

//export lp_group_remove
func lp_group_remove(plan, name *C.char) C.LPResult {
	return result(session.Bridge().RemoveGroup(input(plan), C.GoString(name)))
}

//export lp_dictionary_add
func lp_dictionary_add(plan, code, name *C.char) C.LPResult {
	return result(session.Bridge().AddDictionaryEntry(input(plan), C.GoString(code), C.GoString(name)))
}

//export lp_dictionary_remove
func lp_dictionary_remove(plan, code *C.char) C.LPResult {
	return result(session.Bridge().RemoveDictionaryEntry(input(plan), C.GoString(code)))
}

//export lp_dictionary_search
func lp_dictionary_search(plan, query *C.char, limit C.int) C.LPResult {
	return result(session.Bridge().SearchDictionary(input(plan), C.GoString(query), int(limit)))
}

//export lp_app_support_dir
func lp_app_support_dir() C.LPResult {
	return result(session.Bridge().AppSupportDir())
}

//export lp_cache_dir
func lp_cache_dir() C.LPResult {
	return result(session.Bridge().CacheDir())
}

//export lp_drafts_dir
func lp_drafts_dir() C.LPResult {
	return result(session.Bridge().DraftsDir())
}
