package document

import "sync"

// AllTypes is the filter sentinel that matches every document type.
const AllTypes = "all"

// DocumentType pairs a type name with its display label.
type DocumentType struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// TypeRegistry is the extensible set of document categories. The zero value is
// an empty registry ready for Register.
type TypeRegistry struct {
	mu     sync.RWMutex
	order  []string
	labels map[string]string
}

// DefaultTypes returns the registry seeded with the laboratory document categories.
func DefaultTypes() *TypeRegistry {
	r := &TypeRegistry{}
	r.Register("Протокол", "Протокол")
	r.Register("Методика", "Методика")
	r.Register("Отчет", "Отчет")
	r.Register("ТЗ", "Техническое задание")
	r.Register("Инструкция", "Инструкция")
	return r
}

// Register adds a type or relabels an existing one. An empty label falls back to the name.
func (r *TypeRegistry) Register(name, label string) {
	if label == "" {
		label = name
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.labels == nil {
		r.labels = map[string]string{}
	}
	if _, ok := r.labels[name]; !ok {
		r.order = append(r.order, name)
	}
	r.labels[name] = label
}

// Has reports whether name is registered.
func (r *TypeRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.labels[name]
	return ok
}

// Label returns the display label for name, or name itself when unknown.
func (r *TypeRegistry) Label(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.labels[name]; ok {
		return l
	}
	return name
}

// List returns the registered types in registration order.
func (r *TypeRegistry) List() []DocumentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DocumentType, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, DocumentType{Name: n, Label: r.labels[n]})
	}
	return out
}
