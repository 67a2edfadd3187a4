package metadata

// SetAnnotation stores a type-level name annotation unless a value from a
// higher source is already configured. An AnnotationChanged event is raised
// when the stored value changes. It reports whether the write was accepted.
func (m *Model) SetAnnotation(t TypeID, name string, value Setting) bool {
	st := m.typ(t)
	old := st.annotations[name]
	if old.IsSet() && !value.Source.Overrides(old.Source) {
		return false
	}
	if !value.IsSet() {
		return m.RemoveAnnotation(t, name, value.Source)
	}
	if st.annotations == nil {
		st.annotations = make(map[string]Setting)
	}
	st.annotations[name] = value
	if !old.same(value) {
		m.raise(AnnotationChanged{Type: t, Name: name, Old: old, New: value})
	}
	return true
}

// RemoveAnnotation removes a type-level annotation configured from src or a
// lower source. It reports whether the annotation is now absent.
func (m *Model) RemoveAnnotation(t TypeID, name string, src ConfigSource) bool {
	st := m.typ(t)
	old, ok := st.annotations[name]
	if !ok || !old.IsSet() {
		return true
	}
	if !src.Overrides(old.Source) {
		return false
	}
	delete(st.annotations, name)
	m.raise(AnnotationChanged{Type: t, Name: name, Old: old})
	return true
}

// SetTableName maps t to the named table.
func (m *Model) SetTableName(t TypeID, name string, src ConfigSource) bool {
	return m.SetAnnotation(t, AnnotationTableName, Setting{Value: name, Source: src})
}

// ClearTableName removes the table name of t.
func (m *Model) ClearTableName(t TypeID, src ConfigSource) bool {
	return m.RemoveAnnotation(t, AnnotationTableName, src)
}

// SetSchema sets the table schema of t.
func (m *Model) SetSchema(t TypeID, schema string, src ConfigSource) bool {
	return m.SetAnnotation(t, AnnotationSchema, Setting{Value: schema, Source: src})
}

// ClearSchema removes the table schema of t.
func (m *Model) ClearSchema(t TypeID, src ConfigSource) bool {
	return m.RemoveAnnotation(t, AnnotationSchema, src)
}

// SetViewName maps t to the named view.
func (m *Model) SetViewName(t TypeID, name string, src ConfigSource) bool {
	return m.SetAnnotation(t, AnnotationViewName, Setting{Value: name, Source: src})
}

// SetContainerColumnName sets the JSON container column of the owned type t.
func (m *Model) SetContainerColumnName(t TypeID, name string, src ConfigSource) bool {
	return m.SetAnnotation(t, AnnotationContainerColumnName, Setting{Value: name, Source: src})
}

func writeSetting(cur *Setting, value Setting) bool {
	if cur.IsSet() && !value.Source.Overrides(cur.Source) {
		return false
	}
	*cur = value
	return true
}

func clearSetting(cur *Setting, src ConfigSource) bool {
	if !cur.IsSet() {
		return true
	}
	if !src.Overrides(cur.Source) {
		return false
	}
	*cur = Setting{}
	return true
}

// SetColumnName sets the base column name of p.
func (m *Model) SetColumnName(p PropertyID, name string, src ConfigSource) bool {
	return writeSetting(&m.prop(p).column, Setting{Value: name, Source: src})
}

// ClearColumnName removes the base column name of p.
func (m *Model) ClearColumnName(p PropertyID, src ConfigSource) bool {
	return clearSetting(&m.prop(p).column, src)
}

// SetColumnNameAt overrides the column name of p in so.
func (m *Model) SetColumnNameAt(p PropertyID, so StoreObject, name string, src ConfigSource) bool {
	pr := m.prop(p)
	cur := pr.overrides[so]
	if !writeSetting(&cur, Setting{Value: name, Source: src}) {
		return false
	}
	if pr.overrides == nil {
		pr.overrides = make(map[StoreObject]Setting)
	}
	pr.overrides[so] = cur
	return true
}

// ClearColumnNameAt removes the column override of p in so.
func (m *Model) ClearColumnNameAt(p PropertyID, so StoreObject, src ConfigSource) bool {
	pr := m.prop(p)
	cur := pr.overrides[so]
	if !clearSetting(&cur, src) {
		return false
	}
	delete(pr.overrides, so)
	return true
}

// SetKeyName sets the constraint name of k.
func (m *Model) SetKeyName(k KeyID, name string, src ConfigSource) bool {
	return writeSetting(&m.key(k).name, Setting{Value: name, Source: src})
}

// ClearKeyName removes the constraint name of k.
func (m *Model) ClearKeyName(k KeyID, src ConfigSource) bool {
	return clearSetting(&m.key(k).name, src)
}

// SetConstraintName sets the constraint name of fk.
func (m *Model) SetConstraintName(fk ForeignKeyID, name string, src ConfigSource) bool {
	return writeSetting(&m.fk(fk).name, Setting{Value: name, Source: src})
}

// ClearConstraintName removes the constraint name of fk.
func (m *Model) ClearConstraintName(fk ForeignKeyID, src ConfigSource) bool {
	return clearSetting(&m.fk(fk).name, src)
}

// SetIndexName sets the database name of i.
func (m *Model) SetIndexName(i IndexID, name string, src ConfigSource) bool {
	return writeSetting(&m.idx(i).name, Setting{Value: name, Source: src})
}

// ClearIndexName removes the database name of i.
func (m *Model) ClearIndexName(i IndexID, src ConfigSource) bool {
	return clearSetting(&m.idx(i).name, src)
}
