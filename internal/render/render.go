// Package render presents a lookup result as a text table or an HTML page.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

// Message returns a human-readable explanation for a failed lookup.
func Message(err error) string {
	switch domain.KindOf(err) {
	case domain.KindUnsupported:
		return "Location is not supported on this device."
	case domain.KindPermissionDenied:
		return "Location access was denied."
	case domain.KindUnavailable:
		return "Your location could not be determined."
	case domain.KindTimeout:
		return "Timed out while determining your location."
	case domain.KindFetchFailed:
		return "Failed to fetch bathrooms."
	}
	if err == nil {
		return ""
	}
	return "Something went wrong."
}

// Heading is the title line for a successful lookup.
func Heading(r domain.QueryResult) string {
	return "Bathrooms accessed at " + r.AccessedAt.Format(time.RFC1123)
}

// Text writes a plain table: one row per point of interest.
func Text(w io.Writer, r domain.QueryResult) error {
	if !r.Ready() {
		_, err := fmt.Fprintf(w, "Error: %s\n", Message(r.Err))
		return err
	}

	if _, err := fmt.Fprintln(w, Heading(r)); err != nil {
		return err
	}
	if len(r.POIs) == 0 {
		_, err := fmt.Fprintln(w, "No bathrooms found nearby.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OSM NODE\tDISTANCE\tOSM LINK\tDIRECTIONS")
	for _, p := range r.POIs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, distance(r.Origin, p), p.OSMURL(), p.DirectionsURL())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Attribution.Copyright != "" {
		_, err := fmt.Fprintln(w, r.Attribution.Copyright)
		return err
	}
	return nil
}

func distance(origin *domain.Coordinates, p domain.PointOfInterest) string {
	if origin == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f m", origin.DistanceTo(p.Coordinates()))
}
