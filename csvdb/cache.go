package csvdb

import (
	"strconv"
	"strings"

	"github.com/9seconds/ipattrib/topolib"
	lru "github.com/hashicorp/golang-lru"
)

// DefaultInternCacheSize is a number of distinct field sets kept for
// interning.
const DefaultInternCacheSize = 4096

// fieldsCache interns field sets: datasets have a lot of ranges which
// point to the same location so they can share the same map.
type fieldsCache struct {
	cache *lru.Cache
	buf   strings.Builder
}

func (f *fieldsCache) get(fields topolib.Fields) topolib.Fields {
	f.buf.Reset()

	for _, field := range topolib.FieldsOrder {
		value, ok := fields[field]
		if !ok {
			continue
		}

		f.buf.WriteString(string(field))
		f.buf.WriteByte(0)

		switch v := value.(type) {
		case string:
			f.buf.WriteString(v)
		case int64:
			f.buf.WriteString(strconv.FormatInt(v, 10))
		case float64:
			f.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}

		f.buf.WriteByte(0)
	}

	key := f.buf.String()

	if item, ok := f.cache.Get(key); ok {
		return item.(topolib.Fields)
	}

	f.cache.Add(key, fields)

	return fields
}

func newFieldsCache(size int) *fieldsCache {
	if size <= 0 {
		size = DefaultInternCacheSize
	}

	cache, _ := lru.New(size)

	return &fieldsCache{
		cache: cache,
	}
}
