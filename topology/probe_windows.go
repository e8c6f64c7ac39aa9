// File: topology/probe_windows.go
//go:build windows
// +build windows

//
// Windows heterogeneity probe over GetLogicalProcessorInformationEx.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package topology

import (
	"fmt"
	"sort"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32                          = windows.NewLazySystemDLL("kernel32.dll")
	procGetLogicalProcessorInformationEx = modkernel32.NewProc("GetLogicalProcessorInformationEx")
)

// RelationProcessorCore, winnt.h.
const relationProcessorCore = 0

// groupAffinity mirrors GROUP_AFFINITY.
type groupAffinity struct {
	Mask     uintptr
	Group    uint16
	Reserved [3]uint16
}

// processorRelationship mirrors the fixed prefix of PROCESSOR_RELATIONSHIP;
// GroupCount entries of GROUP_AFFINITY follow it in the buffer.
type processorRelationship struct {
	Flags           byte
	EfficiencyClass byte
	Reserved        [20]byte
	GroupCount      uint16
}

// infoHeader mirrors SYSTEM_LOGICAL_PROCESSOR_INFORMATION_EX up to the
// union payload.
type infoHeader struct {
	Relationship uint32
	Size         uint32
}

const (
	infoHeaderSize   = 8
	relationshipSize = 24
)

// probeHybrid asks the kernel for per-core efficiency classes. Cores below
// the highest observed class are efficiency cores; a single class across the
// host is inconclusive. Only the first processor group is considered, which
// covers hosts up to 64 logical cores.
func probeHybrid(total int) (perf, eff []int, err error) {
	var length uint32
	ret, _, callErr := procGetLogicalProcessorInformationEx.Call(
		uintptr(relationProcessorCore), 0, uintptr(unsafe.Pointer(&length)))
	if ret != 0 || length == 0 || callErr != windows.ERROR_INSUFFICIENT_BUFFER {
		return nil, nil, fmt.Errorf("processor information size query: %v", callErr)
	}
	buf := make([]byte, length)
	ret, _, callErr = procGetLogicalProcessorInformationEx.Call(
		uintptr(relationProcessorCore), uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&length)))
	if ret == 0 {
		return nil, nil, fmt.Errorf("GetLogicalProcessorInformationEx: %v", callErr)
	}

	classByCore := make(map[int]int)
	maxClass := 0
	for off := uint32(0); off+infoHeaderSize <= length; {
		hdr := (*infoHeader)(unsafe.Pointer(&buf[off]))
		if hdr.Size == 0 || off+hdr.Size > length {
			break
		}
		if hdr.Relationship == relationProcessorCore {
			rel := (*processorRelationship)(unsafe.Pointer(&buf[off+infoHeaderSize]))
			masks := unsafe.Slice(
				(*groupAffinity)(unsafe.Pointer(&buf[off+infoHeaderSize+relationshipSize])),
				int(rel.GroupCount))
			for _, g := range masks {
				if g.Group != 0 {
					continue
				}
				for bit := 0; bit < 64 && bit < total; bit++ {
					if g.Mask&(uintptr(1)<<uint(bit)) == 0 {
						continue
					}
					classByCore[bit] = int(rel.EfficiencyClass)
					if int(rel.EfficiencyClass) > maxClass {
						maxClass = int(rel.EfficiencyClass)
					}
				}
			}
		}
		off += hdr.Size
	}
	if len(classByCore) == 0 {
		return nil, nil, fmt.Errorf("no processor core records in %d bytes", length)
	}
	if maxClass == 0 {
		return nil, nil, nil
	}
	for id, class := range classByCore {
		if class == maxClass {
			perf = append(perf, id)
		} else {
			eff = append(eff, id)
		}
	}
	sort.Ints(perf)
	sort.Ints(eff)
	return perf, eff, nil
}
