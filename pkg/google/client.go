package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/agenda/pkg/auth"
	"github.com/harrisonrobin/agenda/pkg/logx"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewClient authenticates and resolves calendarName to its id.
func NewClient(ctx context.Context, store auth.Store, calendarName string) (*CalendarClient, error) {
	client, err := store.GetClient(ctx, auth.Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	var calendarID string
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			calendarID = item.Id
			break
		}
	}
	if calendarID == "" {
		return nil, fmt.Errorf("calendar '%s' not found", calendarName)
	}

	log := store.Log.Component("google")
	log.Debug("resolved calendar", logx.String("name", calendarName), logx.String("id", calendarID))
	return NewCalendarClient(srv, calendarID, log), nil
}
