package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/decideborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/returnborrowedbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/submitborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borrowrequests"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/reconcileavailability"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

func (c *cli) borrowCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "borrow BOOK_ID",
		Short: "Ask to borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			if name == "" {
				name = s.Username
			}

			command := submitborrowrequest.BuildCommand(uuid.New(), args[0], name, s.Email, time.Now())

			result, err := rt.Handlers.SubmitBorrowRequest.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			request := shell.OutputAs[core.BorrowRequest](result)

			return c.print(request, func(w io.Writer) error {
				if result.Idempotent {
					_, err := fmt.Fprintf(w, "You already asked for %q, request %s is %s\n",
						request.BookTitle, request.ID, request.Status)
					return err
				}

				_, err := fmt.Fprintf(w, "Asked for %q, request %s is waiting for a librarian\n",
					request.BookTitle, request.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "borrower name (default: your username)")

	return cmd
}

func (c *cli) requestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List and decide borrow requests",
	}

	cmd.AddCommand(
		c.requestsListCommand(),
		c.requestsDecideCommand("accept", core.StatusAccepted),
		c.requestsDecideCommand("reject", core.StatusRejected),
	)

	return cmd
}

func (c *cli) requestsListCommand() *cobra.Command {
	var (
		all    bool
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your borrow requests, or all of them with --all (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			query := borrowrequests.MyRequests(s)
			if all {
				query = borrowrequests.AllRequests(core.RequestStatus(status), s)
			}

			listing, err := rt.Handlers.BorrowRequests.Handle(cmd.Context(), query)
			if err != nil {
				return err
			}

			return c.print(listing, func(w io.Writer) error {
				return writeRequests(w, listing.Requests)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "every borrower's requests")
	cmd.Flags().StringVar(&status, "status", "", "with --all, only this status")

	return cmd
}

func writeRequests(w io.Writer, requests []core.BorrowRequest) error {
	if len(requests) == 0 {
		_, err := fmt.Fprintln(w, "No borrow requests.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBOOK\tBORROWER\tDATE\tSTATUS")
	for _, r := range requests {
		fmt.Fprintf(tw, "%s\t%s (%s)\t%s <%s>\t%s\t%s\n",
			r.ID, r.BookTitle, r.BookID, r.BorrowerName, r.BorrowerEmail, r.Date.Format(time.DateOnly), r.Status)
	}

	return tw.Flush()
}

func (c *cli) requestsDecideCommand(verb string, outcome core.RequestStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " REQUEST_ID",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a pending borrow request (admins only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			command := decideborrowrequest.BuildCommand(args[0], outcome, s, time.Now())

			result, err := rt.Handlers.DecideBorrowRequest.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			request := shell.OutputAs[core.BorrowRequest](result)

			return c.print(request, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Request %s for %q is %s\n", request.ID, request.BookTitle, request.Status)
				return err
			})
		},
	}
}

func (c *cli) returnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "return REQUEST_ID",
		Short: "Give back the book of an accepted request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			mine, err := rt.Handlers.BorrowRequests.Handle(cmd.Context(), borrowrequests.MyRequests(s))
			if err != nil {
				return err
			}

			var bookID core.BookIDString
			for _, r := range mine.Requests {
				if r.ID == args[0] {
					bookID = r.BookID
				}
			}
			if bookID == "" {
				return fmt.Errorf("%w: %s is not one of your requests", core.ErrBorrowRequestNotFound, args[0])
			}

			command := returnborrowedbook.BuildCommand(args[0], bookID, s, time.Now())

			result, err := rt.Handlers.ReturnBorrowedBook.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			request := shell.OutputAs[core.BorrowRequest](result)

			return c.print(request, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Returned %q, thank you\n", request.BookTitle)
				return err
			})
		},
	}
}

func (c *cli) reconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Finish interrupted transitions and repair availability drift (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			if err := requireAdmin(s); err != nil {
				return err
			}

			result, err := rt.Handlers.Reconcile.Handle(cmd.Context(), reconcileavailability.BuildCommand(time.Now()))
			report := shell.OutputAs[reconcileavailability.Report](result)
			if err != nil {
				return err
			}

			return c.print(report, func(w io.Writer) error {
				return writeReport(w, report)
			})
		},
	}
}

func writeReport(w io.Writer, report reconcileavailability.Report) error {
	if report.IsClean() {
		_, err := fmt.Fprintln(w, "Nothing to reconcile.")
		return err
	}

	lines := []struct {
		label string
		ids   []string
	}{
		{"redriven transitions", report.RedrivenTransitions},
		{"repaired statuses", report.RepairedStatuses},
		{"flipped books", report.FlippedBooks},
		{"closed claims", report.ClosedClaims},
		{"drifted books (left as is)", report.DriftedBooks},
		{"failures", report.Failures},
	}

	for _, line := range lines {
		if len(line.ids) == 0 {
			continue
		}

		if _, err := fmt.Fprintf(w, "%s: %s\n", line.label, strings.Join(line.ids, ", ")); err != nil {
			return err
		}
	}

	return nil
}
