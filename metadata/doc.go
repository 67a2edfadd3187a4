// Package metadata provides the mutable relational model that naming
// conventions operate on.
//
// The model is an arena: structural types, properties, keys, foreign keys and
// indexes live in slices owned by a [Model] and refer to each other through
// stable integer identifiers ([TypeID], [PropertyID], [KeyID], [ForeignKeyID],
// [IndexID]). Nothing outside the model holds a pointer into it.
//
// # Building
//
// A model is built incrementally through the builder API:
//
//	m := metadata.New(metadata.DefaultConventions())
//	blog := m.Entity("Blog")
//	blog.Property("Id")
//	blog.Property("Title")
//	blog.HasIndex("Title")
//	post := m.Entity("Post")
//	post.Property("BlogId")
//	post.HasForeignKey("Blog", "BlogId")
//	if err := m.Finalize(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Events
//
// Every structural mutation raises a typed [Event]. Events are delivered to
// the [Handler]s of the model's [ConventionSet] in ascending [Phase] order.
// Events raised while a handler runs are queued and delivered once the
// current event has been handled by every subscriber, so conventions always
// observe a consistent model.
//
// # Configuration sources
//
// Every name carries a [ConfigSource]. A write only replaces a value whose
// source is not higher than its own: conventions never override names that
// were configured explicitly through the builder.
//
// # Default names
//
// When no name is configured, the model computes one the way a relational
// mapper does: tables default to the type's short name (or its context set
// name), columns to the property name prefixed by ownership navigations,
// primary keys to PK_<table>, alternate keys to AK_<table>_<columns>,
// foreign keys to FK_<table>_<principal table>_<columns> and indexes to
// IX_<table>_<columns>.
package metadata
