package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/emrgen/docversion"
	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(currentCmd())
	rootCmd.AddCommand(getVersionCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(globalMetricsCmd())

	rootCmd.AddCommand(tagCmd)
	tagCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	tagCmd.AddCommand(addTagCmd())
	tagCmd.AddCommand(listTagsCmd())
	tagCmd.AddCommand(listTaggedVersionsCmd())
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "version tag commands",
}

func recordCmd() *cobra.Command {
	var docID string
	var title string
	var content string
	var file string
	var description string
	var keywords []string
	var comment string
	var kind string
	var force bool

	var required = []string{"doc-id", "title"}

	command := &cobra.Command{
		Use:     "record",
		Short:   "record an edit of a document",
		Long:    `record an edit; a version is only created when the content changed enough`,
		Example: "docversion record -d <doc-id> -t <title> -c <content>\ndocversion record -d <doc-id> -t <title> -f ./draft.md --force",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					logrus.Error(err)
					return
				}
				content = string(data)
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.RecordEdit(actorContext(), &v1.RecordEditRequest{
				DocumentID:  docID,
				Title:       title,
				Description: description,
				Content:     content,
				Keywords:    keywords,
				Comment:     comment,
				ChangeKind:  kind,
				Force:       force,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			if !res.Created {
				color.Yellow("no version created: the change is below the threshold")
				return
			}

			printVersions([]*v1.Version{res.Version})
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "title of the document (required)")
	command.Flags().StringVarP(&content, "content", "c", "", "content of the document")
	command.Flags().StringVarP(&file, "file", "f", "", "read the content from a file")
	command.Flags().StringVar(&description, "description", "", "description of the document")
	command.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "comma separated keywords")
	command.Flags().StringVar(&comment, "comment", "", "comment for the version")
	command.Flags().StringVar(&kind, "kind", "", "change kind: creation, edit, restoration or backup")
	command.Flags().BoolVar(&force, "force", false, "create a version regardless of the change size")

	command.Flags().SortFlags = false

	return command
}

func currentCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "current",
		Short:   "show the current version of a document",
		Example: "docversion current -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.GetCurrentVersion(actorContext(), &v1.GetCurrentVersionRequest{DocumentID: docID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printVersions([]*v1.Version{res.Version})
			printField("Content", res.Version.Content)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func getVersionCmd() *cobra.Command {
	var versionID string

	var required = []string{"version-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "show a version",
		Example: "docversion get -v <version-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.GetVersion(actorContext(), &v1.GetVersionRequest{ID: versionID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printVersions([]*v1.Version{res.Version})
			printField("Fingerprint", res.Version.Fingerprint)
			printField("Content", res.Version.Content)
		},
	}

	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")

	return command
}

func historyCmd() *cobra.Command {
	var docID string
	var author string
	var kind string
	var tag string
	var from string
	var to string
	var limit int
	var offset int

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "history",
		Short:   "list the versions of a document",
		Example: "docversion history -d <doc-id> --from 2024-01-01 --author <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &v1.ListVersionsRequest{
				DocumentID: docID,
				ChangeKind: kind,
				Author:     author,
				Tag:        tag,
				Limit:      limit,
				Offset:     offset,
			}
			var err error
			if req.From, err = parseTime(from); err != nil {
				logrus.Errorf("invalid --from: %v", err)
				return
			}
			if req.To, err = parseTime(to); err != nil {
				logrus.Errorf("invalid --to: %v", err)
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.ListVersions(actorContext(), req)
			if err != nil {
				logrus.Error(err)
				return
			}

			printVersions(res.Versions)
			printField("Total", strconv.FormatInt(res.Total, 10))
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVar(&author, "author", "", "only versions by this author")
	command.Flags().StringVar(&kind, "kind", "", "only versions of this change kind")
	command.Flags().StringVar(&tag, "tag", "", "only versions carrying this tag label")
	command.Flags().StringVar(&from, "from", "", "only versions created at or after this date")
	command.Flags().StringVar(&to, "to", "", "only versions created at or before this date")
	command.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of versions")
	command.Flags().IntVar(&offset, "offset", 0, "number of versions to skip")

	command.Flags().SortFlags = false

	return command
}

func diffCmd() *cobra.Command {
	var from string
	var to string

	var required = []string{"from", "to"}

	command := &cobra.Command{
		Use:     "diff",
		Short:   "compare two versions",
		Example: "docversion diff --from <version-id> --to <version-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.CompareVersions(actorContext(), &v1.CompareVersionsRequest{
				OriginID:      from,
				DestinationID: to,
				Unified:       true,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			printUnified(res.Unified)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Additions", "Deletions", "Modifications", "Changed %"})
			table.Append([]string{
				strconv.Itoa(res.Additions),
				strconv.Itoa(res.Deletions),
				strconv.Itoa(res.Modifications),
				strconv.FormatFloat(res.Percentage, 'f', 2, 64),
			})
			table.Render()

			if len(res.FieldChanges) > 0 {
				fields := tablewriter.NewWriter(os.Stdout)
				fields.SetHeader([]string{"Field", "From", "To"})
				for _, fc := range res.FieldChanges {
					fields.Append([]string{fc.Field, fc.Origin, fc.Destination})
				}
				fields.Render()
			}
		},
	}

	command.Flags().StringVar(&from, "from", "", "origin version id (required)")
	command.Flags().StringVar(&to, "to", "", "destination version id (required)")

	return command
}

func restoreCmd() *cobra.Command {
	var docID string
	var versionID string
	var reason string

	var required = []string{"doc-id", "version-id"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "make a historical version current again",
		Example: "docversion restore -d <doc-id> -v <version-id> --reason <reason>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.RestoreVersion(actorContext(), &v1.RestoreVersionRequest{
				DocumentID: docID,
				VersionID:  versionID,
				Reason:     reason,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			if res.AlreadyCurrent {
				color.Yellow("version %s is already current", versionID)
				return
			}

			color.Green("restored %s, previous current version was %s", res.Restoration.RestoredVersionID, res.Restoration.PreviousCurrentVersionID)
			printVersions([]*v1.Version{res.Current})
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")
	command.Flags().StringVar(&reason, "reason", "", "why the version is restored")

	return command
}

func addTagCmd() *cobra.Command {
	var versionID string
	var label string
	var description string
	var tagColor string
	var icon string

	var required = []string{"version-id", "label"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "tag a version",
		Example: "docversion tag add -v <version-id> -l approved --color #10b981",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.AddTag(actorContext(), &v1.AddTagRequest{
				VersionID:   versionID,
				Label:       label,
				Description: description,
				Color:       tagColor,
				Icon:        icon,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			printTags([]*v1.VersionTag{res.Tag})
		},
	}

	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")
	command.Flags().StringVarP(&label, "label", "l", "", "tag label (required)")
	command.Flags().StringVar(&description, "description", "", "tag description")
	command.Flags().StringVar(&tagColor, "color", "", "hex color")
	command.Flags().StringVar(&icon, "icon", "", "icon")

	return command
}

func listTagsCmd() *cobra.Command {
	var versionID string

	var required = []string{"version-id"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the tags of a version",
		Example: "docversion tag list -v <version-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.ListTags(actorContext(), &v1.ListTagsRequest{VersionID: versionID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printTags(res.Tags)
		},
	}

	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")

	return command
}

func listTaggedVersionsCmd() *cobra.Command {
	var docID string
	var label string

	var required = []string{"doc-id", "label"}

	command := &cobra.Command{
		Use:     "versions",
		Short:   "list the versions of a document carrying a tag",
		Example: "docversion tag versions -d <doc-id> -l approved",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.ListVersionsByTag(actorContext(), &v1.ListVersionsByTagRequest{DocumentID: docID, Label: label})
			if err != nil {
				logrus.Error(err)
				return
			}

			printVersions(res.Versions)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&label, "label", "l", "", "tag label (required)")

	return command
}

func statsCmd() *cobra.Command {
	var docID string
	var days int

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "stats",
		Short:   "show the version statistics and activity of a document",
		Example: "docversion stats -d <doc-id> --days 7",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx := actorContext()
			stats, err := client.GetStatistics(ctx, &v1.GetStatisticsRequest{DocumentID: docID})
			if err != nil {
				logrus.Error(err)
				return
			}

			s := stats.Statistics
			lastModified := "-"
			if s.LastModifiedAt != nil {
				lastModified = s.LastModifiedAt.Format(time.RFC3339)
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Versions", "Authors", "Avg Size", "Last Modified"})
			table.Append([]string{
				strconv.FormatInt(s.TotalVersions, 10),
				strconv.FormatInt(s.UniqueAuthorCount, 10),
				strconv.FormatFloat(s.AverageContentSize, 'f', 1, 64),
				lastModified,
			})
			table.Render()

			activity, err := client.GetActivity(ctx, &v1.GetActivityRequest{DocumentID: docID, Days: days})
			if err != nil {
				logrus.Error(err)
				return
			}

			daily := tablewriter.NewWriter(os.Stdout)
			daily.SetHeader([]string{"Date", "Versions", "Editors", "Edits", "Restorations"})
			for _, d := range activity.Days {
				daily.Append([]string{
					d.Date,
					strconv.FormatInt(d.VersionsCreated, 10),
					strconv.FormatInt(d.UniqueEditors, 10),
					strconv.FormatInt(d.Edits, 10),
					strconv.FormatInt(d.Restorations, 10),
				})
			}
			daily.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().IntVar(&days, "days", 30, "number of days of activity")

	return command
}

func globalMetricsCmd() *cobra.Command {
	var days int

	command := &cobra.Command{
		Use:     "metrics",
		Short:   "show versioning activity across all documents",
		Example: "docversion metrics --days 7",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := docversion.NewClient(grpcAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.GetGlobalMetrics(actorContext(), &v1.GetGlobalMetricsRequest{Days: days})
			if err != nil {
				logrus.Error(err)
				return
			}

			m := res.Metrics
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Documents", "Versions", "Editors", "Avg Size", "Restorations", "Comparisons", "Tags"})
			table.Append([]string{
				strconv.FormatInt(m.DocumentsWithVersions, 10),
				strconv.FormatInt(m.TotalVersions, 10),
				strconv.FormatInt(m.TotalEditors, 10),
				strconv.FormatFloat(m.AverageContentSize, 'f', 1, 64),
				strconv.FormatInt(m.TotalRestorations, 10),
				strconv.FormatInt(m.TotalComparisons, 10),
				strconv.FormatInt(m.TotalTags, 10),
			})
			table.Render()
		},
	}

	command.Flags().IntVar(&days, "days", 30, "number of days")

	return command
}

func printVersions(versions []*v1.Version) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Token", "Kind", "Author", "Title", "Size", "Current", "Created"})
	for _, v := range versions {
		current := ""
		if v.IsCurrent {
			current = "*"
		}
		table.Append([]string{
			v.ID,
			v.Token,
			string(v.ChangeKind),
			v.Author,
			v.Title,
			strconv.FormatInt(v.ContentSize, 10),
			current,
			v.CreatedAt.Format(time.RFC3339),
		})
	}
	table.Render()
}

func printTags(tags []*v1.VersionTag) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Label", "Color", "Icon", "Assigned By", "Assigned At"})
	for _, t := range tags {
		table.Append([]string{t.Label, t.Color, t.Icon, t.AssignedBy, t.AssignedAt.Format(time.RFC3339)})
	}
	table.Render()
}

func printUnified(unified string) {
	scanner := bufio.NewScanner(strings.NewReader(unified))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			color.New(color.Bold).Println(line)
		case strings.HasPrefix(line, "@@"):
			color.Cyan("%s", line)
		case strings.HasPrefix(line, "+"):
			color.Green("%s", line)
		case strings.HasPrefix(line, "-"):
			color.Red("%s", line)
		default:
			fmt.Println(line)
		}
	}
}

func parseTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := dateparse.ParseLocal(value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns ok if they are set
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		_ = cmd.Usage()

		return true
	}

	return false
}
