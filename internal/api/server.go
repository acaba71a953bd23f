package api

import (
	"github.com/anhnphe171575/SepCapstone-sub005/internal/config"
	"github.com/anhnphe171575/SepCapstone-sub005/internal/identity"
	"github.com/anhnphe171575/SepCapstone-sub005/internal/message"
	s "github.com/anhnphe171575/SepCapstone-sub005/internal/storage"
	ws "github.com/anhnphe171575/SepCapstone-sub005/internal/websocket"
	"github.com/gin-gonic/gin"
)

func Serve(cfg *config.Config) error {
	r := gin.Default()

	db, err := s.Connect(cfg.DBPath)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	session := ws.NewSession(hub, identity.NewIdentityService(db), message.NewMessageService(db))

	router := NewRouter(db, session, hub, cfg)
	router.RegisterRoutes(r)

	return r.Run(cfg.Addr)
}
