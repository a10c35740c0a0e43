package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
)

func printUser(w io.Writer, u models.PublicUser) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", u.ID)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "username\t%s\n", u.Username)
	fmt.Fprintf(tw, "role\t%s\n", u.Role)
	fmt.Fprintf(tw, "nickname\t%s\n", u.Profile.Nickname)
	fmt.Fprintf(tw, "bio\t%s\n", u.Profile.Bio)
	fmt.Fprintf(tw, "avatar\t%s\n", u.Profile.AvatarRef)
	fmt.Fprintf(tw, "active character\t%s\n", u.ActiveCharacterID)
	_ = tw.Flush()
}

func printCharacters(w io.Writer, chars []models.Character) {
	if len(chars) == 0 {
		fmt.Fprintln(w, "No characters")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLASS\tLEVEL\tPOSITION\tOWNER")
	for _, c := range chars {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f,%.0f\t%s\n",
			c.ID, c.Name, c.ClassName, c.Level, c.Position.X, c.Position.Y, c.OwnerID)
	}
	_ = tw.Flush()
}

func printMarkers(w io.Writer, markers []models.Marker) {
	if len(markers) == 0 {
		fmt.Fprintln(w, "No markers")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPOSITION\tDESCRIPTION")
	for _, m := range markers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f,%.0f\t%s\n",
			m.ID, m.Name, m.Type, m.Position.X, m.Position.Y, m.Description)
	}
	_ = tw.Flush()
}

func printUsers(w io.Writer, users []models.PublicUser) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	_ = tw.Flush()
}

func printAudit(w io.Writer, entries []models.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No audit entries")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tACTOR\tPAYLOAD")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), e.Type, e.ActorUserID, e.Payload)
	}
	_ = tw.Flush()
}
