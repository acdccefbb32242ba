package placeholder

import (
	"fmt"
	"github.com/cespare/xxhash/v2"
	"rank-service/internal/metrics"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DefaultCacheSize bounds the number of memoized renders.
const DefaultCacheSize = 4096

var (
	tokenPattern       = regexp.MustCompile(`\{([a-zA-Z0-9_]+)(?::([a-zA-Z0-9_]+))?\}`)
	conditionalPattern = regexp.MustCompile(`(?s)\{if:([a-zA-Z0-9_]+)\}(.*?)\{endif\}`)
)

// Match is the raw token a Producer is invoked for.
type Match struct {
	Raw    string
	Name   string
	Format string
}

// Producer must be a pure function of its Match: renders are cached by
// template and data only.
type Producer func(match Match) string

// Data supplies literal values for placeholders and keys for conditional blocks.
type Data map[string]any

type Engine struct {
	metrics *metrics.Metrics

	mu sync.RWMutex
	// producers is replaced, never mutated, so renders can use a snapshot
	// without holding mu.
	producers  map[string]Producer
	generation uint64
	cache      map[uint64]cacheEntry
	cacheSize  int
}

// cacheEntry keeps the exact fingerprint next to the render so a hash
// collision is detected instead of served.
type cacheEntry struct {
	fingerprint string
	rendered    string
}

type Option func(*Engine)

func WithCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

func NewEngine(m *metrics.Metrics, opts ...Option) *Engine {
	e := &Engine{
		metrics:   m,
		producers: make(map[string]Producer),
		cache:     make(map[uint64]cacheEntry),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register installs producer under name, replacing any previous one, and drops
// every cached render since the old producer may have contributed to them.
func (e *Engine) Register(name string, producer Producer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	producers := make(map[string]Producer, len(e.producers)+1)
	for k, v := range e.producers {
		producers[k] = v
	}
	producers[name] = producer

	e.producers = producers
	e.generation++
	e.cache = make(map[uint64]cacheEntry)
}

func (e *Engine) Registered(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.producers[name]
	return ok
}

func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cache = make(map[uint64]cacheEntry)
}

// Expand replaces {name} and {name:format} tokens of registered placeholders.
// Literal values in data win over producers and are never formatted. Tokens
// with no registered producer are left as they are.
//
// Producers run without the engine lock held, so they may call Expand.
func (e *Engine) Expand(template string, data Data) string {
	fp := fingerprint(template, data)
	key := xxhash.Sum64String(fp)

	e.mu.RLock()
	entry, ok := e.cache[key]
	producers, generation := e.producers, e.generation
	e.mu.RUnlock()

	if ok && entry.fingerprint == fp {
		e.metrics.PlaceholderCacheHits.Inc()
		return entry.rendered
	}
	e.metrics.PlaceholderCacheMisses.Inc()

	rendered := render(template, data, producers)

	e.mu.Lock()
	defer e.mu.Unlock()

	// A registration during the render may have changed the result.
	if e.generation != generation {
		return rendered
	}
	if len(e.cache) >= e.cacheSize {
		e.cache = make(map[uint64]cacheEntry)
	}
	e.cache[key] = cacheEntry{fingerprint: fp, rendered: rendered}
	return rendered
}

func render(template string, data Data, producers map[string]Producer) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(raw string) string {
		groups := tokenPattern.FindStringSubmatch(raw)
		match := Match{Raw: raw, Name: groups[1], Format: groups[2]}

		producer, ok := producers[match.Name]
		if !ok {
			return raw
		}
		if value, ok := data[match.Name]; ok && value != nil {
			return fmt.Sprint(value)
		}
		return applyFormat(producer(match), match.Format)
	})
}

// ExpandConditional replaces each {if:KEY}content{endif} block with content
// when data[KEY] is truthy, or with nothing otherwise. It is not cached.
func (e *Engine) ExpandConditional(template string, data Data) string {
	return conditionalPattern.ReplaceAllStringFunc(template, func(block string) string {
		groups := conditionalPattern.FindStringSubmatch(block)
		if truthy(data[groups[1]]) {
			return groups[2]
		}
		return ""
	})
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case []string:
		return len(value) > 0
	default:
		return true
	}
}

// fingerprint encodes template and data unambiguously: every key and value
// carries a type tag and a length prefix, and keys are sorted.
func fingerprint(template string, data Data) string {
	var b strings.Builder
	writeField(&b, 's', template)

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		writeField(&b, 'k', k)
		writeValue(&b, data[k])
	}
	return b.String()
}

func writeValue(b *strings.Builder, v any) {
	switch value := v.(type) {
	case nil:
		writeField(b, 'n', "")
	case string:
		writeField(b, 's', value)
	case bool:
		writeField(b, 'b', strconv.FormatBool(value))
	case int:
		writeField(b, 'i', strconv.Itoa(value))
	case int64:
		writeField(b, 'i', strconv.FormatInt(value, 10))
	case float64:
		writeField(b, 'f', strconv.FormatFloat(value, 'g', -1, 64))
	case []string:
		writeField(b, 'l', strconv.Itoa(len(value)))
		for _, item := range value {
			writeField(b, 's', item)
		}
	default:
		writeField(b, 'v', fmt.Sprintf("%T:%v", value, value))
	}
}

func writeField(b *strings.Builder, tag byte, value string) {
	b.WriteByte(tag)
	b.WriteString(strconv.Itoa(len(value)))
	b.WriteByte(':')
	b.WriteString(value)
}
