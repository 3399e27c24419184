package nav

import (
	"context"
	"log/slog"

	"github.com/odvcencio/arrownav/pkg/bus"
)

// Bus topics shared by the registrar, the registry and the controller.
var (
	ElementRegistered   = bus.NewTopic[*Element]("nav.element.registered")
	ElementUnregistered = bus.NewTopic[string]("nav.element.unregistered")
	RegionRegistered    = bus.NewTopic[*Region]("nav.region.registered")
	RegionUnregistered  = bus.NewTopic[string]("nav.region.unregistered")

	// ElementFocused fires after focus has been applied to an element.
	ElementFocused = bus.NewTopic[*Element]("nav.element.focused")
	// RegionLeft fires when focus moves out of a region.
	RegionLeft = bus.NewTopic[*Region]("nav.region.left")
)

// LogEvents taps every nav topic on b and logs it at debug level.
func LogEvents(b *bus.Bus, logger *slog.Logger) *bus.Subscription {
	return b.Tap("nav.>", func(subject string, payload any) {
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}
		attrs := []any{slog.String("subject", subject)}
		switch p := payload.(type) {
		case *Element:
			attrs = append(attrs, slog.String("element", p.ID), slog.String("region", p.RegionID))
		case *Region:
			attrs = append(attrs, slog.String("region", p.ID))
		case string:
			attrs = append(attrs, slog.String("id", p))
		}
		logger.Debug("bus event", attrs...)
	})
}
