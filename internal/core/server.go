package core

import (
	"zerobin/internal/config"
	"zerobin/internal/database"
)

// PasteServer ties the store to the process configuration. One value is
// built at startup and shared by every handler; it holds no mutable
// state of its own.
type PasteServer struct {
	DB   database.Database
	Salt []byte
	Base string
}

func NewPasteServer(db database.Database, cfg config.Config) PasteServer {
	return PasteServer{
		DB:   db,
		Salt: cfg.Salt,
		Base: cfg.BaseURL,
	}
}
