package discord

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Tiers de competitivo: 3..5 Iron 1-3, 6..8 Bronze, ... 24..26 Immortal, 27 Radiant.
const (
	minTier     = 3
	radiantTier = 27
)

var tierNames = []string{"iron", "bronze", "silver", "gold", "platinum", "diamond", "ascendant", "immortal"}

// RankBadges resuelve tier → emoji del guild. Sin emoji el rango va sólo como texto.
type RankBadges struct {
	mu     sync.RWMutex
	emojis map[int]string
}

// NewRankBadges arranca con el override de env.
// Formato: RANK_EMOJIS="12:<:gold1:id>,13:<:gold2:id>,..."
func NewRankBadges(override string) *RankBadges {
	return &RankBadges{emojis: parseEmojiMapEnv(override)}
}

var emojiMarkupRe = regexp.MustCompile(`^<a?:[a-zA-Z0-9_~]+:\d+>$`)

func parseEmojiMapEnv(s string) map[int]string {
	out := map[int]string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		colon := strings.IndexByte(p, ':')
		if colon <= 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(p[:colon]))
		if err != nil || n < minTier || n > radiantTier {
			continue
		}
		val := strings.TrimSpace(p[colon+1:])
		if !emojiMarkupRe.MatchString(val) {
			continue
		}
		out[n] = val
	}
	return out
}

var emojiTierRe = regexp.MustCompile(`^(?:val_?|valorant_?|rank_?)?([a-z]+)_?([123])?$`)

// tierFromEmojiName: "gold2", "Gold_2", "val_immortal3", "radiant".
func tierFromEmojiName(name string) (int, bool) {
	name = strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	m := emojiTierRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	if m[1] == "radiant" && m[2] == "" {
		return radiantTier, true
	}
	if m[2] == "" {
		return 0, false
	}
	div, _ := strconv.Atoi(m[2])
	for i, t := range tierNames {
		if t == m[1] {
			return minTier + i*3 + div - 1, true
		}
	}
	return 0, false
}

// Discover busca emojis del guild con nombre de rango; el override de env gana.
func (b *RankBadges) Discover(s *discordgo.Session, guildID string) int {
	g, _ := s.State.Guild(guildID)
	if g == nil {
		g, _ = s.Guild(guildID)
	}
	if g == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	found := 0
	for _, e := range g.Emojis {
		tier, ok := tierFromEmojiName(e.Name)
		if !ok {
			continue
		}
		if _, set := b.emojis[tier]; set {
			continue
		}
		b.emojis[tier] = fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
		found++
	}
	return found
}

func (b *RankBadges) Badge(tier int) string {
	if b == nil {
		return ""
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.emojis[tier]
}

// Label: "<emoji> Gold 2" o sólo el nombre.
func (b *RankBadges) Label(name string, tier int) string {
	if name == "" {
		return "N/A"
	}
	if e := b.Badge(tier); e != "" {
		return e + " " + name
	}
	return name
}
