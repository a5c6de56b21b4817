package brief

import (
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// structField describes one encodable field of a struct.
type structField struct {
	name      string
	fieldIdx  int    // index into reflect.Value.Field
	wireIdx   uint32 // key when encoding with indices
	omitEmpty bool
}

// structInfo is the cached encoding plan for a struct type.
type structInfo struct {
	fields  []structField
	byName  map[string]int
	byIndex map[uint64]int
}

// infoCache avoids re-walking struct tags on every call. Using a global
// concurrent map makes it safe to share across encoders.
var infoCache = xsync.NewMap[reflect.Type, *structInfo]()

// cachedStructInfo returns the encoding plan for t, computing and caching
// it on first use.
//
// Field keys come from the `brief` struct tag when present, the Go field
// name otherwise. A tag of "-" excludes the field but still consumes its
// wire index, so index-keyed data stays compatible when a field is
// excluded later. Unexported fields are invisible and consume no index.
func cachedStructInfo(t reflect.Type) *structInfo {
	if info, ok := infoCache.Load(t); ok {
		return info
	}

	info := &structInfo{
		byName:  make(map[string]int),
		byIndex: make(map[uint64]int),
	}
	var wireIdx uint32
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		var omitEmpty bool
		if tag, ok := f.Tag.Lookup("brief"); ok {
			tagName, opts, _ := strings.Cut(tag, ",")
			if tagName == "-" && opts == "" {
				wireIdx++
				continue
			}
			if tagName != "" {
				name = tagName
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}
		idx := len(info.fields)
		info.fields = append(info.fields, structField{
			name:      name,
			fieldIdx:  i,
			wireIdx:   wireIdx,
			omitEmpty: omitEmpty,
		})
		info.byName[name] = idx
		info.byIndex[uint64(wireIdx)] = idx
		wireIdx++
	}

	info, _ = infoCache.LoadOrStore(t, info)
	return info
}
