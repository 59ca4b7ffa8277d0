package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

const masked = "***"

// maskHandler replaces values of sensitive keys, including keys nested inside
// groups, maps and JSON encoded strings or bytes.
type maskHandler struct {
	next slog.Handler
	keys map[string]struct{}
}

func maskKeySet(fields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return keys
}

func (h *maskHandler) sensitive(key string) bool {
	_, ok := h.keys[strings.ToLower(key)]
	return ok
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.keys) == 0 {
		return h.next.Handle(ctx, r)
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.attr(a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.attr(a)
	}
	return &maskHandler{next: h.next.WithAttrs(clean), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{next: h.next.WithGroup(name), keys: h.keys}
}

func (h *maskHandler) attr(a slog.Attr) slog.Attr {
	if h.sensitive(a.Key) {
		return slog.String(a.Key, masked)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = h.attr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}

	case slog.KindString:
		if s, ok := h.json([]byte(v.String())); ok {
			return slog.String(a.Key, s)
		}

	case slog.KindAny:
		switch val := v.Any().(type) {
		case map[string]any:
			return slog.Any(a.Key, h.walk(val))
		case map[string]string:
			m := make(map[string]any, len(val))
			for k, s := range val {
				m[k] = s
			}
			return slog.Any(a.Key, h.walk(m))
		case []byte:
			if s, ok := h.json(val); ok {
				return slog.String(a.Key, s)
			}
		}
	}

	return a
}

// json masks a JSON object or array payload. ok is false for anything else.
func (h *maskHandler) json(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	b, err := json.Marshal(h.walk(body))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (h *maskHandler) walk(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if h.sensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = h.walk(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = h.walk(inner)
		}
		return out
	default:
		return v
	}
}
