package handler

import (
	"duochat/internal/app/chat"
	"duochat/internal/app/storage"
	"duochat/internal/app/store"
	"duochat/internal/configs"
)

// AppDeps bundles the collaborators the HTTP and WebSocket handlers need.
// The composition root builds one instance and threads it through the router.
type AppDeps struct {
	Config         *configs.AppConfig
	Store          *store.Store
	Hub            *chat.Hub
	EventRouter    *chat.EventRouter
	Resolver       *chat.ChatSessionResolver
	Pipeline       *chat.MessageDeliveryPipeline
	Seen           *chat.SeenReceiptCoordinator
	StorageService storage.StorageService
}
