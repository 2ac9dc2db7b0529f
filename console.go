package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/pcdannotator/segment"
)

type console struct {
	cmd *commandContext
}

var errArgumentNumber = errors.New("invalid number of arguments")
var errInvalidCommand = errors.New("invalid command")

type consoleCommand func(ctx context.Context, cmd *commandContext, args []string) (string, error)

var consoleCommands = map[string]consoleCommand{
	"load": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 1 {
			return "", errArgumentNumber
		}
		if err := cmd.Load(ctx, args[0]); err != nil {
			return "", err
		}
		pp, _ := cmd.PointCloud()
		return fmt.Sprintf("%d points", pp.Len()), nil
	},
	"info": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		pp, ok := cmd.PointCloud()
		if !ok {
			return "", errNoPointCloud
		}
		r := cmd.editor.ppRect
		return fmt.Sprintf("%s: %d points\n%s\n%s",
			cmd.FileName(), pp.Len(), formatFloats(r.min[:]...), formatFloats(r.max[:]...),
		), nil
	},
	"select_range": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		v, err := parseFloats(args)
		if err != nil {
			return "", err
		}
		switch len(v) {
		case 0:
		case 1:
			if err := cmd.SetSelectRange(v[0]); err != nil {
				return "", err
			}
		default:
			return "", errArgumentNumber
		}
		return formatFloats(cmd.SelectRange()), nil
	},
	"param": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		switch len(args) {
		case 0:
		case 3:
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return "", errors.WithStack(err)
			}
			v, err := parseFloats(args[1:])
			if err != nil {
				return "", err
			}
			if err := cmd.SetFloodfillParam(k, v[0], v[1]); err != nil {
				return "", err
			}
		default:
			return "", errArgumentNumber
		}
		k, angle, band := cmd.FloodfillParam()
		return strconv.Itoa(k) + " " + formatFloats(angle, band), nil
	},
	"pick": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		v, err := parseFloats(args)
		if err != nil {
			return "", err
		}
		if len(v) != 3 {
			return "", errArgumentNumber
		}
		id, err := cmd.Pick(mat.Vec3{v[0], v[1], v[2]})
		if err != nil {
			return "", err
		}
		return formatPick(cmd, len(cmd.Picks())-1, id), nil
	},
	"pick_index": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 1 {
			return "", errArgumentNumber
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.WithStack(err)
		}
		if err := cmd.PickIndex(id); err != nil {
			return "", err
		}
		return formatPick(cmd, len(cmd.Picks())-1, id), nil
	},
	"picks": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		var lines []string
		for i, id := range cmd.Picks() {
			lines = append(lines, formatPick(cmd, i, id))
		}
		return strings.Join(lines, "\n"), nil
	},
	"unset_picks": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		cmd.UnsetPicks()
		return "", nil
	},
	"floodfill": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		res, err := cmd.Floodfill()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d points", len(res)), nil
	},
	"cancel": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		cmd.Cancel()
		return "", nil
	},
	"undo": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		res, ok := cmd.Undo()
		if !ok {
			return "", errors.New("nothing to undo")
		}
		return fmt.Sprintf("%d points", len(res)), nil
	},
	"max_history": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		switch len(args) {
		case 0:
		case 1:
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return "", errors.WithStack(err)
			}
			cmd.history.SetMaxHistory(n)
		default:
			return "", errArgumentNumber
		}
		return strconv.Itoa(cmd.history.MaxHistory()), nil
	},
	"save": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		label := segment.Wall
		switch len(args) {
		case 1:
		case 2:
			var err error
			if label, err = segment.ParseClassLabel(args[1]); err != nil {
				return "", err
			}
		default:
			return "", errArgumentNumber
		}
		seg, err := cmd.Save(args[0], label)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("saved segment %d", seg.ID), nil
	},
	"segments": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 0 {
			return "", errArgumentNumber
		}
		return renderSegments(cmd.Segments()), nil
	},
	"delete": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 1 {
			return "", errArgumentNumber
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.WithStack(err)
		}
		return "", cmd.DeleteSegment(id)
	},
	"highlight": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 2 {
			return "", errArgumentNumber
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.WithStack(err)
		}
		pp, err := cmd.Highlight(id)
		if err != nil {
			return "", err
		}
		return "", cmd.cloudIO.exportCloud(args[1], pp)
	},
	"export": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 1 {
			return "", errArgumentNumber
		}
		return "", cmd.ExportResult(args[0])
	},
	"export_rest": func(ctx context.Context, cmd *commandContext, args []string) (string, error) {
		if len(args) != 1 {
			return "", errArgumentNumber
		}
		return "", cmd.ExportRest(args[0])
	},
}

func (c *console) Run(ctx context.Context, line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	fn, ok := consoleCommands[args[0]]
	if !ok {
		return "", errInvalidCommand
	}
	return fn(ctx, c.cmd, args[1:])
}

func commandNames() []string {
	names := make([]string, 0, len(consoleCommands))
	for name := range consoleCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseFloats(args []string) ([]float32, error) {
	var out []float32
	for _, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		out = append(out, float32(f))
	}
	return out, nil
}

func formatFloats(v ...float32) string {
	s := make([]string, len(v))
	for i, f := range v {
		s[i] = strconv.FormatFloat(float64(f), 'f', 3, 32)
	}
	return strings.Join(s, " ")
}

func formatPick(cmd *commandContext, i, id int) string {
	pp, _ := cmd.PointCloud()
	p := pp.Points[id]
	return strconv.Itoa(i) + " " + strconv.Itoa(id) + " " + formatFloats(p[:]...)
}

func renderSegments(segs []segment.Segment) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Class", "Points", "File"})
	for _, s := range segs {
		t.AppendRow(table.Row{s.ID, s.SegmentName, s.TypeClass.Label, len(s.Indices), s.DataFileName})
	}
	return t.Render()
}
