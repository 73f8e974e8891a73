package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
	"github.com/jose-valero/roster-bot/internal/domain"
)

// Platform implementa service.ChatPlatform sobre la sesión de discordgo.
type Platform struct {
	s               *discordgo.Session
	guildID         string
	rosterChannelID string
	badges          *RankBadges
}

func NewPlatform(s *discordgo.Session, guildID, rosterChannelID string, badges *RankBadges) *Platform {
	return &Platform{s: s, guildID: guildID, rosterChannelID: rosterChannelID, badges: badges}
}

var _ service.ChatPlatform = (*Platform)(nil)

func (p *Platform) PostApproval(ctx context.Context, card service.ApprovalCard) (string, string, error) {
	embed, comps := approvalCard(card, p.badges)
	msg, err := p.s.ChannelMessageSendComplex(p.rosterChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: comps,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", "", mapREST(err)
	}
	return msg.ChannelID, msg.ID, nil
}

// CloseApproval deja sólo el texto final: sin embed ni botones.
func (p *Platform) CloseApproval(ctx context.Context, channelID, messageID, content string) error {
	embeds := []*discordgo.MessageEmbed{}
	comps := []discordgo.MessageComponent{}
	_, err := p.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &comps,
	}, discordgo.WithContext(ctx))
	return mapREST(err)
}

func (p *Platform) Notify(ctx context.Context, channelID, content string) error {
	_, err := p.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return mapREST(err)
}

func (p *Platform) GrantRoles(ctx context.Context, userID string, roleIDs ...string) error {
	return p.eachRole(ctx, userID, roleIDs, p.s.GuildMemberRoleAdd)
}

func (p *Platform) RevokeRoles(ctx context.Context, userID string, roleIDs ...string) error {
	return p.eachRole(ctx, userID, roleIDs, p.s.GuildMemberRoleRemove)
}

type roleCall func(guildID, userID, roleID string, options ...discordgo.RequestOption) error

func (p *Platform) eachRole(ctx context.Context, userID string, roleIDs []string, call roleCall) error {
	var errs []error
	for _, rid := range roleIDs {
		if rid == "" {
			continue
		}
		err := call(p.guildID, userID, rid, discordgo.WithContext(ctx))
		if err == nil {
			continue
		}
		// el usuario ya no está en el guild: no hay roles que tocar
		if restCode(err) == discordgo.ErrCodeUnknownMember {
			log.Info().Str("user_id", userID).Msg("member left the guild, skipping roles")
			return nil
		}
		errs = append(errs, fmt.Errorf("role %s: %w", rid, mapREST(err)))
	}
	return errors.Join(errs...)
}

func restCode(err error) int {
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Message != nil {
		return re.Message.Code
	}
	return 0
}

// mapREST traduce los "unknown" de discord a errores de dominio.
func mapREST(err error) error {
	if err == nil {
		return nil
	}
	switch restCode(err) {
	case discordgo.ErrCodeUnknownRole:
		return fmt.Errorf("%w: %v", domain.ErrRoleNotFound, err)
	case discordgo.ErrCodeUnknownChannel:
		return fmt.Errorf("%w: %v", domain.ErrChannelNotFound, err)
	}
	return err
}
