package main

import (
	"context"
	"time"

	"FamilyHub/data/database/mgo/mongoutil"
	"FamilyHub/global"
	"FamilyHub/logger"
	mid "FamilyHub/middleware"
	"FamilyHub/module/family/store"
	"FamilyHub/module/notification"
	notifsvc "FamilyHub/module/notification/service"
	notifstore "FamilyHub/module/notification/store"
	"FamilyHub/module/user"
	"FamilyHub/service/channels"
	"FamilyHub/service/gateway"
	"FamilyHub/service/storage"
	"FamilyHub/tools/ids"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := global.Config
	ids.SetNodeID(100)

	// 1) Persistence collaborators
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := mongoutil.NewDatabase(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Username: cfg.MongoUsername,
		Password: cfg.MongoPassword,
	})
	cancel()
	if err != nil {
		logger.Errorf("mongo connect failed: %v", err)
		return
	}

	// Presence mirror is optional; the registry works without it.
	var presence gateway.Presence
	if cfg.RedisAddr != "" {
		ps, perr := storage.NewPresenceStore(storage.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.PresenceTTL)
		if perr != nil {
			logger.Warnf("presence mirror disabled: %v", perr)
		} else {
			presence = ps
		}
	}

	// 2) One gateway instance, injected everywhere
	reg := gateway.NewRegistry()
	auth := gateway.NewHandshakeAuth(global.GetJwtSecret())
	gw := gateway.New(reg, auth, presence)

	// 3) Channels
	nStore := notifstore.NewMongoStore(db)
	nService := notifsvc.New(nStore, gw)
	channels.NewNotification(gw, nService)

	members := store.NewMongoStore(db)
	hub := &channels.Hub{
		Menu:     channels.NewDomain(gw, members, channels.MenuConf()),
		Shopping: channels.NewDomain(gw, members, channels.ShoppingConf()),
		Fridge:   channels.NewDomain(gw, members, channels.FridgeConf()),
	}

	// 4) HTTP + WebSocket
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws/notifications", gw.HandleWS(channels.NamespaceNotifications))
	r.GET("/ws/menu", gw.HandleWS(channels.MenuConf().Namespace))
	r.GET("/ws/shopping", gw.HandleWS(channels.ShoppingConf().Namespace))
	r.GET("/ws/fridge", gw.HandleWS(channels.FridgeConf().Namespace))

	authOpt := mid.RouteOpt{IsAuth: true, Secret: global.GetJwtSecret()}
	nHandler := notification.NewHandler(nService)
	mid.GET(r, "/api/notifications", nHandler.HandleList, authOpt)
	mid.GET(r, "/api/notifications/unread_count", nHandler.HandleUnreadCount, authOpt)
	mid.POST(r, "/api/notifications", nHandler.HandleCreate, authOpt)
	mid.PATCH(r, "/api/notifications/read_all", nHandler.HandleMarkAllRead, authOpt)
	mid.PATCH(r, "/api/notifications/:id/read", nHandler.HandleMarkRead, authOpt)
	mid.DELETE(r, "/api/notifications/:id", nHandler.HandleDelete, authOpt)

	mid.POST(r, "/api/admin/evict/:userId", gw.HandleEvict, authOpt)
	mid.GET(r, "/api/admin/online", gw.HandleOnline, authOpt)
	mid.POST(r, "/api/admin/broadcast/:namespace", hub.HandleBroadcast, authOpt)

	if cfg.DevLogin {
		mid.POST(r, "/login", user.HandlerLogin, mid.RouteOpt{IsAuth: false})
	}

	logger.Infof("[HTTP] Listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Errorf("HTTP server failed: %v", err)
	}
}
