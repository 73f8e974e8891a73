package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Defer efímero (para trabajos >3s)
func DeferEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("interaction", ic.ID).Msg("DeferEphemeral")
	}
	return err
}

// AckUpdate: ack de un botón sin mandar mensaje (el que espera edita después).
func AckUpdate(s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Warn().Err(err).Str("interaction", ic.ID).Msg("AckUpdate")
	}
	return err
}

func SendEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, msg string) error {
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("interaction", ic.ID).Msg("SendEphemeral")
	}
	return err
}

func ReplyEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	replyEphemeral(s, ic, &discordgo.WebhookParams{Content: content, Embeds: embeds})
}

// ReplyComponents: respuesta efímera con botones (list_teams).
func ReplyComponents(s *discordgo.Session, ic *discordgo.InteractionCreate, content string, comps []discordgo.MessageComponent) {
	replyEphemeral(s, ic, &discordgo.WebhookParams{Content: content, Components: comps})
}

func replyEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, params *discordgo.WebhookParams) {
	params.Flags = discordgo.MessageFlagsEphemeral
	params.AllowedMentions = &discordgo.MessageAllowedMentions{}
	_, err := s.FollowupMessageCreate(ic.Interaction, true, params)
	if err == nil {
		return
	}
	// Fallback sólo si todavía no hay respuesta (webhook desconocido)
	var reqErr *discordgo.RESTError
	if errors.As(err, &reqErr) && reqErr.Message != nil && reqErr.Message.Code == discordgo.ErrCodeUnknownWebhook {
		_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    params.Content,
				Flags:      discordgo.MessageFlagsEphemeral,
				Embeds:     params.Embeds,
				Components: params.Components,
			},
		})
		return
	}
	log.Warn().Err(err).Str("interaction", ic.ID).Msg("ReplyEphemeral")
}
