package service

import "teleterm/internal/domain"

// Resolver maps user and chat ids to display names, resolving them lazily
// through the engine. A miss issues a single lookup command and reports a
// placeholder until the record arrives; a hit returns the cached name.
// The caches and pending sets belong to the one goroutine that runs the
// Listener, so no locking is done here.
type Resolver struct {
	client Client

	users        map[int64]string
	chats        map[int64]string
	pendingUsers map[int64]struct{}
	pendingChats map[int64]struct{}
}

// NewResolver creates a resolver with empty caches.
func NewResolver(client Client) *Resolver {
	return &Resolver{
		client:       client,
		users:        make(map[int64]string),
		chats:        make(map[int64]string),
		pendingUsers: make(map[int64]struct{}),
		pendingChats: make(map[int64]struct{}),
	}
}

// UserName returns the display name for a user, or its placeholder. On a
// miss a getUser request is issued at most once; further misses for the
// same id wait for the outstanding response.
func (r *Resolver) UserName(id int64) string {
	if name, ok := r.users[id]; ok {
		return name
	}
	if _, pending := r.pendingUsers[id]; !pending {
		if err := r.client.Send(domain.NewGetUser(id)); err == nil {
			r.pendingUsers[id] = struct{}{}
		}
	}
	return domain.UserPlaceholder(id)
}

// ChatName returns the display name for a chat, or its placeholder,
// issuing at most one getChat request per pending id.
func (r *Resolver) ChatName(id int64) string {
	if name, ok := r.chats[id]; ok {
		return name
	}
	if _, pending := r.pendingChats[id]; !pending {
		if err := r.client.Send(domain.NewGetChat(id)); err == nil {
			r.pendingChats[id] = struct{}{}
		}
	}
	return domain.ChatPlaceholder(id)
}

// ResolveUser records a user record delivered by the engine. A later
// record for the same id overwrites the cached name.
func (r *Resolver) ResolveUser(u domain.User) {
	r.users[u.ID] = u.DisplayName()
	delete(r.pendingUsers, u.ID)
}

// ResolveChat records a chat record delivered by the engine.
func (r *Resolver) ResolveChat(c domain.Chat) {
	r.chats[c.ID] = c.DisplayName()
	delete(r.pendingChats, c.ID)
}
