package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"linkhut/internal/app"
	"linkhut/internal/secret"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) getCmd() *cobra.Command {
	var opts app.GetOptions
	cmd := &cobra.Command{
		Use:   "get",
		Short: "List bookmarks by tag, date or url, or the most recent ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := c.app.GetBookmarks(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), posts)
		},
	}
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "tags separated by commas or spaces")
	cmd.Flags().StringVar(&opts.Date, "date", "", "ISO-8601 date")
	cmd.Flags().StringVar(&opts.URL, "url", "", "exact bookmark url")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "number of recent bookmarks")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var (
		opts    app.CreateOptions
		noFetch bool
	)
	cmd := &cobra.Command{
		Use:   "add URL",
		Short: "Create a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			opts.SkipTagFetch = noFetch
			bookmark, err := c.app.CreateBookmark(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bookmark)
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "title; fetched when empty")
	cmd.Flags().StringVar(&opts.Note, "note", "", "extended note")
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "tags separated by commas or spaces")
	cmd.Flags().BoolVar(&noFetch, "no-tag-fetch", false, "do not suggest tags when none are given")
	cmd.Flags().BoolVar(&opts.Private, "private", false, "keep the bookmark private")
	cmd.Flags().BoolVar(&opts.ToRead, "to-read", false, "add to the reading list")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace an existing bookmark")
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var (
		opts            app.UpdateOptions
		private, toRead bool
	)
	cmd := &cobra.Command{
		Use:   "update URL",
		Short: "Update a bookmark, creating it when missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			if cmd.Flags().Changed("private") {
				opts.Private = &private
			}
			if cmd.Flags().Changed("to-read") {
				opts.ToRead = &toRead
			}
			bookmark, err := c.app.UpdateBookmark(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bookmark)
		},
	}
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "tags to add")
	cmd.Flags().StringVar(&opts.Note, "note", "", "note to append")
	cmd.Flags().BoolVar(&private, "private", false, "set the private flag")
	cmd.Flags().BoolVar(&toRead, "to-read", false, "set the to-read flag")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace tags and note instead of appending")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete URL",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteBookmark(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"bookmark_deletion": "success"})
		},
	}
}

func (c *cli) readingListCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "reading-list",
		Short: "Show bookmarks marked to read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := c.app.ReadingList(cmd.Context(), count)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), posts)
		},
	}
	cmd.Flags().IntVar(&count, "count", 5, "number of bookmarks")
	return cmd
}

func (c *cli) tagCmd() *cobra.Command {
	tag := &cobra.Command{
		Use:   "tag",
		Short: "Rename or delete tags",
	}
	tag.AddCommand(
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a tag on every bookmark",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.RenameTag(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{"tag_renaming": "success"})
			},
		},
		&cobra.Command{
			Use:   "delete TAG",
			Short: "Remove a tag from every bookmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.DeleteTag(cmd.Context(), args[0]); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{"tag_deletion": "success"})
			},
		},
	)
	return tag
}

// encryptSecretCmd reads a secret from stdin and prints the value to store in
// the environment.
func (c *cli) encryptSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-secret",
		Short: "Encrypt a token from stdin with the passphrase in the secret key variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase := os.Getenv(c.cfg.SecretKeyEnv)
			if passphrase == "" {
				return fmt.Errorf("%s is not set", c.cfg.SecretKeyEnv)
			}
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			plain := strings.TrimSpace(line)
			if plain == "" {
				return errors.New("no secret on stdin")
			}
			encrypted, err := secret.Encrypt(plain, passphrase)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret.Prefix+encrypted)
			return err
		},
	}
}
