package channels

// Hub bundles the domain channels for the surrounding application: the
// REST mutation services grab their channel here and call the Notify
// helpers after each durable write.
type Hub struct {
	Menu     *DomainChannel
	Shopping *DomainChannel
	Fridge   *DomainChannel
}

func (h *Hub) ByNamespace(ns string) *DomainChannel {
	switch ns {
	case h.Menu.Namespace():
		return h.Menu
	case h.Shopping.Namespace():
		return h.Shopping
	case h.Fridge.Namespace():
		return h.Fridge
	default:
		return nil
	}
}
