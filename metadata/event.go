package metadata

// EventKind enumerates the model events conventions can subscribe to.
type EventKind uint8

const (
	KindEntityTypeAdded EventKind = iota + 1
	KindBaseTypeChanged
	KindAnnotationChanged
	KindPropertyAdded
	KindOwnershipChanged
	KindForeignKeyAdded
	KindForeignKeyPropertiesChanged
	KindKeyAdded
	KindIndexAdded
	KindModelFinalizing
)

// EventKinds lists every event kind.
var EventKinds = []EventKind{
	KindEntityTypeAdded,
	KindBaseTypeChanged,
	KindAnnotationChanged,
	KindPropertyAdded,
	KindOwnershipChanged,
	KindForeignKeyAdded,
	KindForeignKeyPropertiesChanged,
	KindKeyAdded,
	KindIndexAdded,
	KindModelFinalizing,
}

var kindNames = [...]string{
	KindEntityTypeAdded:             "EntityTypeAdded",
	KindBaseTypeChanged:             "BaseTypeChanged",
	KindAnnotationChanged:           "AnnotationChanged",
	KindPropertyAdded:               "PropertyAdded",
	KindOwnershipChanged:            "OwnershipChanged",
	KindForeignKeyAdded:             "ForeignKeyAdded",
	KindForeignKeyPropertiesChanged: "ForeignKeyPropertiesChanged",
	KindKeyAdded:                    "KeyAdded",
	KindIndexAdded:                  "IndexAdded",
	KindModelFinalizing:             "ModelFinalizing",
}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Event is a model change delivered to conventions.
type Event interface {
	Kind() EventKind
	// Dispatch calls the Handler method matching the event.
	Dispatch(*Model, Handler)
}

// Handler receives model events. Embed BaseHandler to implement only the
// methods of interest.
type Handler interface {
	OnEntityTypeAdded(*Model, EntityTypeAdded)
	OnBaseTypeChanged(*Model, BaseTypeChanged)
	OnAnnotationChanged(*Model, AnnotationChanged)
	OnPropertyAdded(*Model, PropertyAdded)
	OnOwnershipChanged(*Model, OwnershipChanged)
	OnForeignKeyAdded(*Model, ForeignKeyAdded)
	OnForeignKeyPropertiesChanged(*Model, ForeignKeyPropertiesChanged)
	OnKeyAdded(*Model, KeyAdded)
	OnIndexAdded(*Model, IndexAdded)
	OnModelFinalizing(*Model, ModelFinalizing)
}

// BaseHandler implements Handler with no-ops.
type BaseHandler struct{}

func (BaseHandler) OnEntityTypeAdded(*Model, EntityTypeAdded)                         {}
func (BaseHandler) OnBaseTypeChanged(*Model, BaseTypeChanged)                         {}
func (BaseHandler) OnAnnotationChanged(*Model, AnnotationChanged)                     {}
func (BaseHandler) OnPropertyAdded(*Model, PropertyAdded)                             {}
func (BaseHandler) OnOwnershipChanged(*Model, OwnershipChanged)                       {}
func (BaseHandler) OnForeignKeyAdded(*Model, ForeignKeyAdded)                         {}
func (BaseHandler) OnForeignKeyPropertiesChanged(*Model, ForeignKeyPropertiesChanged) {}
func (BaseHandler) OnKeyAdded(*Model, KeyAdded)                                       {}
func (BaseHandler) OnIndexAdded(*Model, IndexAdded)                                   {}
func (BaseHandler) OnModelFinalizing(*Model, ModelFinalizing)                         {}

type (
	// EntityTypeAdded is raised after an entity type joins the model.
	EntityTypeAdded struct {
		Type TypeID
	}

	// BaseTypeChanged is raised after the base type of Type changes.
	BaseTypeChanged struct {
		Type     TypeID
		Old, New TypeID
	}

	// AnnotationChanged is raised after a type-level name annotation
	// changes its value. Source-only changes raise nothing.
	AnnotationChanged struct {
		Type     TypeID
		Name     string
		Old, New Setting
	}

	// PropertyAdded is raised after a property is declared.
	PropertyAdded struct {
		Property PropertyID
	}

	// OwnershipChanged is raised after a foreign key becomes, or stops
	// being, an ownership.
	OwnershipChanged struct {
		ForeignKey ForeignKeyID
	}

	// ForeignKeyAdded is raised after a foreign key is declared.
	ForeignKeyAdded struct {
		ForeignKey ForeignKeyID
	}

	// ForeignKeyPropertiesChanged is raised after the dependent properties
	// of a foreign key are replaced.
	ForeignKeyPropertiesChanged struct {
		ForeignKey ForeignKeyID
		Old        []PropertyID
	}

	// KeyAdded is raised after a primary or alternate key is declared.
	KeyAdded struct {
		Key KeyID
	}

	// IndexAdded is raised after an index is declared.
	IndexAdded struct {
		Index IndexID
	}

	// ModelFinalizing is raised once, when the model is finalized.
	ModelFinalizing struct{}
)

func (EntityTypeAdded) Kind() EventKind             { return KindEntityTypeAdded }
func (BaseTypeChanged) Kind() EventKind             { return KindBaseTypeChanged }
func (AnnotationChanged) Kind() EventKind           { return KindAnnotationChanged }
func (PropertyAdded) Kind() EventKind               { return KindPropertyAdded }
func (OwnershipChanged) Kind() EventKind            { return KindOwnershipChanged }
func (ForeignKeyAdded) Kind() EventKind             { return KindForeignKeyAdded }
func (ForeignKeyPropertiesChanged) Kind() EventKind { return KindForeignKeyPropertiesChanged }
func (KeyAdded) Kind() EventKind                    { return KindKeyAdded }
func (IndexAdded) Kind() EventKind                  { return KindIndexAdded }
func (ModelFinalizing) Kind() EventKind             { return KindModelFinalizing }

func (e EntityTypeAdded) Dispatch(m *Model, h Handler)   { h.OnEntityTypeAdded(m, e) }
func (e BaseTypeChanged) Dispatch(m *Model, h Handler)   { h.OnBaseTypeChanged(m, e) }
func (e AnnotationChanged) Dispatch(m *Model, h Handler) { h.OnAnnotationChanged(m, e) }
func (e PropertyAdded) Dispatch(m *Model, h Handler)     { h.OnPropertyAdded(m, e) }
func (e OwnershipChanged) Dispatch(m *Model, h Handler)  { h.OnOwnershipChanged(m, e) }
func (e ForeignKeyAdded) Dispatch(m *Model, h Handler)   { h.OnForeignKeyAdded(m, e) }
func (e ForeignKeyPropertiesChanged) Dispatch(m *Model, h Handler) {
	h.OnForeignKeyPropertiesChanged(m, e)
}
func (e KeyAdded) Dispatch(m *Model, h Handler)        { h.OnKeyAdded(m, e) }
func (e IndexAdded) Dispatch(m *Model, h Handler)      { h.OnIndexAdded(m, e) }
func (e ModelFinalizing) Dispatch(m *Model, h Handler) { h.OnModelFinalizing(m, e) }
