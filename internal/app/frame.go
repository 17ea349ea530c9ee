package app

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/jdlms/aws-tui/internal/costs"
	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
	"github.com/jdlms/aws-tui/internal/ui"
)

const costLagNotice = "Cost Explorer data can lag by up to 24 hours."

// highlightedServices is how many of the most expensive services are
// drawn in gold
const highlightedServices = 3

var menuLabels = map[types.Kind]string{
	types.KindInstances: "EC2 Instances",
	types.KindObjects:   "S3 Buckets",
	types.KindCosts:     "Costs",
}

// Frame projects the shell state onto what the screen shows
func (s *Shell) Frame() ui.Frame {
	page := s.stack.Current()
	f := ui.Frame{Selected: -1}

	for _, kind := range HomeItems {
		f.Menu = append(f.Menu, menuLabels[kind])
	}
	f.MenuIndex = s.homeSel
	for i, kind := range HomeItems {
		if page.Is(kind) {
			f.MenuIndex = i
		}
	}

	var loading bool
	switch {
	case page.Kind == nav.PageHome:
		s.homeFrame(&f)
	case page.Is(types.KindInstances) && page.Kind == nav.PageList:
		loading = s.instancesFrame(&f)
	case page.Is(types.KindInstances):
		loading = s.instanceDetailFrame(&f, page)
	case page.Is(types.KindObjects) && page.Kind == nav.PageList:
		loading = s.bucketsFrame(&f)
	case page.Is(types.KindObjects):
		if file, ok := page.Item.(types.ObjectFile); ok {
			loading = s.objectFrame(&f, page.Extra, file)
		} else {
			loading = s.objectsFrame(&f)
		}
	case page.Is(types.KindCosts):
		loading = s.costsFrame(&f)
	}

	if s.err != nil {
		f.Banners = append(f.Banners, ui.Banner{Level: ui.BannerError, Text: s.err.Error()})
	}
	if s.info != "" {
		f.Banners = append(f.Banners, ui.Banner{Level: ui.BannerInfo, Text: s.info})
	}
	if s.Regions.IsOpen() {
		f.Modal = s.regionsModal()
	}

	f.Header = s.header(page, loading || s.switching)
	f.Footer = footerFor(page, s.Regions.IsOpen())
	return f
}

func (s *Shell) header(page nav.Page, loading bool) string {
	profile := s.settings.Profile
	if profile == "" {
		profile = "default"
	}
	region := s.settings.Region
	if region == "" {
		region = "us-east-1"
	}
	h := fmt.Sprintf("[%s::b]aws-tui[-::-]  profile [%s]%s[-]  region [%s]%s[-]  [%s]%s[-]",
		ui.ColorRose, ui.ColorFoam, profile, ui.ColorFoam, region, ui.ColorSubtle, breadcrumb(page))
	if loading {
		h += fmt.Sprintf("  [%s]loading...[-]", ui.ColorGold)
	}
	return h
}

func breadcrumb(p nav.Page) string {
	switch {
	case p.Kind == nav.PageHome:
		return "home"
	case p.Kind == nav.PageList:
		return menuLabels[p.Resource]
	case p.Item == nil:
		return menuLabels[p.Resource]
	}
	if p.Extra != "" {
		return menuLabels[p.Resource] + " / " + p.Extra + " / " + p.Item.DisplayName()
	}
	return menuLabels[p.Resource] + " / " + p.Item.DisplayName()
}

func (s *Shell) homeFrame(f *ui.Frame) {
	region := s.settings.Region
	if region == "" {
		region = "us-east-1"
	}
	f.Table = types.CostData{
		Title: "Welcome to aws-tui",
		Rows: [][]string{
			{"View", "Shows"},
			{menuLabels[types.KindInstances], "EC2 instances in " + region + ", with start and stop"},
			{menuLabels[types.KindObjects], "Buckets, folders and objects, with downloads"},
			{menuLabels[types.KindCosts], "Unblended cost by service and usage type"},
		},
	}
	f.Selected = s.homeSel
}

func addBanners(f *ui.Frame, err error, info string) {
	if err != nil {
		f.Banners = append(f.Banners, ui.Banner{Level: ui.BannerError, Text: err.Error()})
	}
	if info != "" {
		f.Banners = append(f.Banners, ui.Banner{Level: ui.BannerInfo, Text: info})
	}
}

func (s *Shell) instancesFrame(f *ui.Frame) bool {
	c := s.Instances
	rows := [][]string{{"Name", "Instance ID", "State", "Type", "AZ", "Checks"}}
	for _, inst := range c.Items() {
		checks := "-"
		if st, ok := c.Status(inst.InstanceID); ok {
			checks = ui.Colorize(ui.StatusColor(st.String()), st.String())
		}
		rows = append(rows, []string{
			tview.Escape(inst.DisplayName()),
			inst.InstanceID,
			ui.Colorize(ui.StateColor(inst.State), inst.State),
			inst.Type,
			inst.AZ,
			checks,
		})
	}
	f.Table = types.CostData{Title: pageTitle("EC2 Instances", c.PageIndex(), c.HasNextPage()), Rows: rows}
	f.Selected = c.Selection()

	addBanners(f, c.Err(), c.Info())
	addBanners(f, c.ActionErr(), c.ActionMsg())
	if !c.Loading() && c.Err() == nil && len(c.Items()) == 0 && c.loaded {
		addBanners(f, nil, "No instances in this region.")
	}
	return c.Loading()
}

func (s *Shell) instanceDetailFrame(f *ui.Frame, page nav.Page) bool {
	c := s.Instances
	inst, ok := page.Item.(types.Instance)
	if !ok {
		return false
	}
	// show the latest copy after a reload
	if latest, found := c.Find(inst.InstanceID); found {
		inst = latest
	}
	checks := "unknown/unknown"
	if st, ok := c.Status(inst.InstanceID); ok {
		checks = st.String()
	}
	launched := ""
	if !inst.LaunchTime.IsZero() {
		launched = inst.LaunchTime.Local().Format(time.DateTime)
	}

	rows := [][]string{
		{"Field", "Value"},
		{"Instance ID", inst.InstanceID},
		{"Name", tview.Escape(inst.Name)},
		{"State", ui.Colorize(ui.StateColor(inst.State), inst.State)},
		{"Type", inst.Type},
		{"Availability zone", inst.AZ},
		{"Launched", launched},
		{"Public IP", inst.PublicIP},
		{"Private IP", inst.PrivateIP},
		{"Checks", ui.Colorize(ui.StatusColor(checks), checks)},
	}
	for _, key := range slices.Sorted(maps.Keys(inst.Tags)) {
		rows = append(rows, []string{"tag:" + tview.Escape(key), tview.Escape(inst.Tags[key])})
	}
	f.Table = types.CostData{Title: inst.DisplayName(), Rows: rows}

	addBanners(f, c.ActionErr(), c.ActionMsg())
	return c.Loading() || c.Acting()
}

func (s *Shell) bucketsFrame(f *ui.Frame) bool {
	c := s.Objects
	rows := [][]string{{"Bucket", "Region", "Created"}}
	for _, b := range c.Buckets() {
		created := ""
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{tview.Escape(b.Name), c.Region(b.Name), created})
	}
	f.Table = types.CostData{Title: "S3 Buckets", Rows: rows}
	f.Selected = c.BucketSelection()
	addBanners(f, c.Err(), c.Info())
	return c.Loading()
}

func (s *Shell) objectsFrame(f *ui.Frame) bool {
	c := s.Objects
	loc, _ := c.Location()
	rows := [][]string{{"Name", "Size", "Last modified", "Class"}}
	for _, item := range c.Items() {
		switch it := item.(type) {
		case types.ObjectFolder:
			name := strings.TrimPrefix(it.Prefix, loc.Prefix)
			rows = append(rows, []string{ui.Colorize(ui.ColorIris, name), "", "", ""})
		case types.ObjectFile:
			modified := ""
			if !it.LastModified.IsZero() {
				modified = it.LastModified.Local().Format(time.DateTime)
			}
			rows = append(rows, []string{
				tview.Escape(strings.TrimPrefix(it.Key, loc.Prefix)),
				ui.FormatBytes(it.Size),
				modified,
				it.StorageClass,
			})
		}
	}

	title := "s3://" + loc.Bucket + "/" + loc.Prefix
	if region := c.Region(loc.Bucket); region != "" {
		title += " (" + region + ")"
	}
	f.Table = types.CostData{Title: pageTitle(title, c.PageIndex(), c.HasNextPage()), Rows: rows}
	f.Selected = c.Selection()
	addBanners(f, c.Err(), c.Info())
	return c.Loading()
}

func (s *Shell) objectFrame(f *ui.Frame, bucket string, file types.ObjectFile) bool {
	d := s.Download
	modified := ""
	if !file.LastModified.IsZero() {
		modified = file.LastModified.Local().Format(time.DateTime)
	}
	f.Table = types.CostData{
		Title: "s3://" + bucket + "/" + file.Key,
		Rows: [][]string{
			{"Field", "Value"},
			{"Bucket", tview.Escape(bucket)},
			{"Key", tview.Escape(file.Key)},
			{"Size", ui.FormatBytes(file.Size)},
			{"Last modified", modified},
			{"Storage class", file.StorageClass},
		},
	}
	f.Input = &ui.InputFrame{
		Label:       "Save to (Tab completes, Enter downloads)",
		Value:       d.Path(),
		Suggestions: d.Suggestions(),
	}
	addBanners(f, d.Err(), d.Info())
	return d.Status() == DownloadSaving
}

func (s *Shell) costsFrame(f *ui.Frame) bool {
	c := s.Costs
	summary := c.Summary()

	top := make(map[string]bool, highlightedServices)
	for i, svc := range summary.Services {
		if i == highlightedServices {
			break
		}
		if svc.Amount > 0 {
			top[svc.ID] = true
		}
	}

	rows := [][]string{{"Service / usage type", "Cost", "Share"}}
	for _, row := range c.Rows() {
		rows = append(rows, costRow(row, top[row.ID]))
	}

	title := "Costs · " + c.Range().Label()
	if c.Loaded() {
		title += " · total " + ui.FormatAmount(summary.Total, summary.Unit)
		if summary.Range != c.Range() {
			title += " (" + summary.Range.Label() + ")"
		}
		title += " · updated " + summary.LastUpdated.Local().Format(time.TimeOnly)
	}
	f.Table = types.CostData{Title: title, Rows: rows}
	f.Selected = c.Selection()

	addBanners(f, c.Err(), c.Info())
	addBanners(f, nil, costLagNotice)
	return c.Loading()
}

func costRow(row costs.Row, highlight bool) []string {
	amount := ui.FormatAmount(row.Amount, row.Unit)
	if !row.IsService() {
		return []string{"    " + tview.Escape(row.Name), amount, ui.FormatPercent(row.Percent)}
	}
	marker := "►"
	if row.Expanded {
		marker = "▼"
	}
	if highlight {
		amount = ui.Colorize(ui.ColorGold, amount)
	}
	return []string{marker + " " + tview.Escape(row.Name), amount, ui.FormatPercent(row.Percent)}
}

func (s *Shell) regionsModal() *ui.ModalFrame {
	c := s.Regions
	m := &ui.ModalFrame{Title: "Region", Selected: c.Selection()}
	for _, r := range c.Regions() {
		label := "  " + r.Name
		if r.Name == s.settings.Region {
			label = "* " + r.Name
		}
		m.Rows = append(m.Rows, label)
	}
	switch {
	case c.Err() != nil:
		m.Message = "[" + ui.ColorLove + "]" + tview.Escape(c.Err().Error()) + "[-]"
	case c.Loading():
		m.Message = "Loading regions..."
	}
	return m
}

func pageTitle(title string, index int, hasNext bool) string {
	t := fmt.Sprintf("%s · page %d", title, index+1)
	if hasNext {
		t += "+"
	}
	return t
}

func footerFor(page nav.Page, modal bool) string {
	keys := []string{"q quit", "R region"}
	switch {
	case modal:
		keys = []string{"↑/↓ move", "enter select", "esc close"}
	case page.Kind == nav.PageHome:
		keys = append([]string{"j/k move", "enter open"}, keys...)
	case page.Is(types.KindInstances) && page.Kind == nav.PageList:
		keys = append([]string{"j/k move", "enter details", "pgup/pgdn page", "s start", "x stop", "r refresh", "esc back"}, keys...)
	case page.Is(types.KindInstances):
		keys = append([]string{"s start", "x stop", "r refresh", "esc back"}, keys...)
	case page.Is(types.KindObjects):
		if _, ok := page.Item.(types.ObjectFile); ok {
			keys = []string{"enter download", "tab complete", "esc back", "ctrl-c quit"}
			break
		}
		keys = append([]string{"j/k move", "enter open", "pgup/pgdn page", "r refresh", "esc back"}, keys...)
	case page.Is(types.KindCosts):
		keys = append([]string{"j/k move", "←/→ collapse/expand", "a toggle all", "g range", "r refresh", "esc back"}, keys...)
	}
	return "[" + ui.ColorSubtle + "]" + strings.Join(keys, " | ") + "[-]"
}
