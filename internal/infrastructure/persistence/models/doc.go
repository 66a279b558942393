// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// entity with ToDomain and a FromDomain constructor.
//
// Column defaults live in the SQL migrations only. A GORM `default` tag would make
// Create skip zero values such as num_pages = 0 or is_printed = false.
package models

// All returns every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&RegionModel{},
		&EnvelopeModel{},
		&EnvelopeMetaModel{},
		&DocumentModel{},
		&DocumentTypeModel{},
		&AuditLogModel{},
	}
}
