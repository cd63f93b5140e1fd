package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/addbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/editbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/removebook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/browsecatalog"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/coversuggestion"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

func (c *cli) booksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage the catalog",
	}

	cmd.AddCommand(
		c.booksListCommand(),
		c.booksShowCommand(),
		c.booksAddCommand(),
		c.booksEditCommand(),
		c.booksRemoveCommand(),
		c.booksCoverCommand(),
	)

	return cmd
}

func (c *cli) booksListCommand() *cobra.Command {
	var filter browsecatalog.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, s, err := c.currentSession(cmd.Context())
			if err != nil {
				return err
			}

			catalog, err := rt.Handlers.BrowseCatalog.Handle(cmd.Context(), browsecatalog.BuildQuery(filter, s))
			if err != nil {
				return err
			}

			return c.print(catalog, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tAVAILABLE\tTAGS")
				for _, entry := range catalog.Entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						entry.ID, entry.Title, entry.Author, entry.Category, yesNo(entry.Available), tags(entry))
				}
				fmt.Fprintf(tw, "\n%d books\n", catalog.Count)

				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "only this category")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "search title and author")
	cmd.Flags().BoolVar(&filter.AvailableOnly, "available", false, "only available books")
	cmd.Flags().BoolVar(&filter.PopularOnly, "popular", false, "only popular books")
	cmd.Flags().BoolVar(&filter.NewOnly, "new", false, "only new books")

	return cmd
}

func tags(entry browsecatalog.Entry) string {
	var out string
	add := func(tag string) {
		if out != "" {
			out += ","
		}
		out += tag
	}

	if entry.IsNew {
		add("new")
	}
	if entry.IsPopular {
		add("popular")
	}
	if entry.BorrowedByYou {
		add("yours")
	}

	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func (c *cli) booksShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show BOOK_ID",
		Short: "Show a book and whether you can borrow it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, s, err := c.currentSession(cmd.Context())
			if err != nil {
				return err
			}

			details, err := rt.Handlers.BookDetails.Handle(cmd.Context(), bookdetails.BuildQuery(args[0], s))
			if err != nil {
				return err
			}

			return c.print(details, func(w io.Writer) error {
				book := details.Book
				fmt.Fprintf(w, "%s\nby %s\n\n", book.Title, book.Author)
				fmt.Fprintf(w, "Category:  %s\nAvailable: %s\nCover:     %s\n", book.Category, yesNo(book.Available), book.Cover)
				if book.Description != "" {
					fmt.Fprintf(w, "\n%s\n", book.Description)
				}

				if details.Eligibility.Eligible {
					_, err := fmt.Fprintf(w, "\nYou can borrow it: borrowdesk borrow %s\n", book.ID)
					return err
				}

				_, err := fmt.Fprintf(w, "\nNot borrowable: %s\n", details.Eligibility.Reason)
				return err
			})
		},
	}
}

func (c *cli) booksAddCommand() *cobra.Command {
	var (
		title, author, category, cover, description string
		isNew, isPopular, suggestCover              bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			if cover == "" && suggestCover {
				suggestion, err := rt.Handlers.CoverSuggestion.Handle(cmd.Context(), coversuggestion.BuildQuery(title, author, s))
				if err != nil {
					return err
				}
				cover = suggestion.Cover
			}

			command := addbook.BuildCommand(title, author, category, cover, description, isNew, isPopular, s)

			result, err := rt.Handlers.AddBook.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			book := shell.OutputAs[core.Book](result)

			return c.print(book, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added %q with id %s\n", book.Title, book.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&author, "author", "", "author")
	cmd.Flags().StringVar(&category, "category", "", "one of "+fmt.Sprint(core.Categories()))
	cmd.Flags().StringVar(&cover, "cover", "", "cover image URL")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().BoolVar(&isNew, "new", false, "mark as new")
	cmd.Flags().BoolVar(&isPopular, "popular", false, "mark as popular")
	cmd.Flags().BoolVar(&suggestCover, "suggest-cover", false, "look up a cover on Open Library when --cover is empty")

	return cmd
}

func (c *cli) booksEditCommand() *cobra.Command {
	var (
		title, author, category, cover, description string
		available, isNew, isPopular                 bool
	)

	cmd := &cobra.Command{
		Use:   "edit BOOK_ID",
		Short: "Change fields of a book (admins only), only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			var patch core.BookPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("author") {
				patch.Author = &author
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("cover") {
				patch.Cover = &cover
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("available") {
				patch.Available = &available
			}
			if flags.Changed("new") {
				patch.IsNew = &isNew
			}
			if flags.Changed("popular") {
				patch.IsPopular = &isPopular
			}

			result, err := rt.Handlers.EditBook.Handle(cmd.Context(), editbook.BuildCommand(args[0], patch, s))
			if err != nil {
				return err
			}

			book := shell.OutputAs[core.Book](result)

			return c.print(book, func(w io.Writer) error {
				if result.Idempotent {
					_, err := fmt.Fprintf(w, "Nothing to change on %s\n", book.ID)
					return err
				}

				_, err := fmt.Fprintf(w, "Updated %q (%s)\n", book.Title, book.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&author, "author", "", "author")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&cover, "cover", "", "cover image URL")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().BoolVar(&available, "available", true, "availability")
	cmd.Flags().BoolVar(&isNew, "new", false, "new flag")
	cmd.Flags().BoolVar(&isPopular, "popular", false, "popular flag")

	return cmd
}

func (c *cli) booksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove BOOK_ID",
		Short: "Remove a book without open requests (admins only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := rt.Handlers.RemoveBook.Handle(cmd.Context(), removebook.BuildCommand(args[0], s)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.out, "Removed %s\n", args[0])
			return err
		},
	}
}

func (c *cli) booksCoverCommand() *cobra.Command {
	var title, author string

	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Suggest a cover from Open Library (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, s, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			suggestion, err := rt.Handlers.CoverSuggestion.Handle(cmd.Context(), coversuggestion.BuildQuery(title, author, s))
			if err != nil {
				return err
			}

			return c.print(suggestion, func(w io.Writer) error {
				if suggestion.Cover == "" {
					_, err := fmt.Fprintln(w, "No cover found.")
					return err
				}

				_, err := fmt.Fprintln(w, suggestion.Cover)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&author, "author", "", "author")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
