// Package chat builds the decorated chat line and name tag for a player.
package chat

import (
	"math/rand"
	"rank-service/internal/placeholder"
	"strings"
)

const (
	MessageToken = "{message}"

	HighestRankPlaceholder = "highestRank"
	SelectedTagPlaceholder = "selectedTag"
	DisplayTagsPlaceholder = "displayTags"
	DisplayNamePlaceholder = "displayName"
	ChatColorPlaceholder   = "chatColor"

	DefaultFormat = "{highestRank} {selectedTag} {displayTags} {displayName} {chatColor} {message}"
)

// messageSentinel keeps {message} away from the engine so a registered
// "message" producer can never fill it in.
const messageSentinel = "\x00message\x00"

type Profile interface {
	Ranks() []string
	Tags() []string
	DisplayTags() []string
	ChatColor() string
}

type RankFormatter interface {
	FormattedHighestRank(names []string) (string, bool)
}

type Renderer struct {
	engine *placeholder.Engine
	ranks  RankFormatter
	format string
	pick   func(n int) int
}

type Option func(*Renderer)

func WithFormat(format string) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

// WithPicker replaces the random tag selection. pick receives the number of
// tags and returns the index to show.
func WithPicker(pick func(n int) int) Option {
	return func(r *Renderer) {
		r.pick = pick
	}
}

func NewRenderer(engine *placeholder.Engine, ranks RankFormatter, opts ...Option) *Renderer {
	r := &Renderer{
		engine: engine,
		ranks:  ranks,
		format: DefaultFormat,
		pick:   rand.Intn,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Values always come in as literal data, the producers only make the
	// names known to the engine.
	empty := func(placeholder.Match) string { return "" }
	for _, name := range []string{
		HighestRankPlaceholder, SelectedTagPlaceholder, DisplayTagsPlaceholder,
		DisplayNamePlaceholder, ChatColorPlaceholder,
	} {
		if !engine.Registered(name) {
			engine.Register(name, empty)
		}
	}

	return r
}

func (r *Renderer) Template() string {
	return r.format
}

// Format returns the player's chat template with every placeholder resolved
// except {message}. A new tag is picked on every call.
func (r *Renderer) Format(profile Profile, displayName string) string {
	highest, _ := r.HighestRank(profile)

	selected := ""
	if tags := profile.Tags(); len(tags) > 0 {
		selected = tags[r.pick(len(tags))]
	}

	data := placeholder.Data{
		HighestRankPlaceholder: highest,
		SelectedTagPlaceholder: selected,
		DisplayTagsPlaceholder: strings.Join(profile.DisplayTags(), " "),
		DisplayNamePlaceholder: displayName,
		ChatColorPlaceholder:   profile.ChatColor(),
	}

	template := r.engine.ExpandConditional(r.format, data)
	template = strings.ReplaceAll(template, MessageToken, messageSentinel)
	rendered := r.engine.Expand(template, data)
	return strings.ReplaceAll(rendered, messageSentinel, MessageToken)
}

// Apply fills the message into a rendered template.
func Apply(template string, message string) string {
	return strings.ReplaceAll(template, MessageToken, message)
}

// HighestRank is the formatted root-most rank the player holds, if any.
func (r *Renderer) HighestRank(profile Profile) (string, bool) {
	return r.ranks.FormattedHighestRank(profile.Ranks())
}

// NameTag is the text shown above the player: their tags, chat colour and name.
func (r *Renderer) NameTag(profile Profile, displayName string) string {
	return strings.Join(profile.Tags(), " ") + profile.ChatColor() + " " + displayName
}
