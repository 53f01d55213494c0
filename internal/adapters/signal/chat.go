package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/app"
	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

type messagePayload struct {
	Room       string `json:"room"`
	Text       string `json:"text"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
}

func (ctl *Controller) handleSendMessage(ctx context.Context, sid core.ConnID, data []byte) {
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("bad sendMessage payload")
		return
	}
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("message rate exceeded, dropped")
		return
	}
	ctl.Coord.SendMessage(ctx, domain.RoomID(p.Room), &domain.Message{
		SenderID:   domain.UserID(p.SenderID),
		SenderName: p.SenderName,
		Content:    domain.MessageContent{Text: p.Text},
	})
}

type filePayload struct {
	Room       string `json:"room"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	FileType   string `json:"fileType"`
	FileURL    string `json:"fileUrl"`
	FileData   string `json:"fileData"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
}

func (ctl *Controller) handleShareFile(ctx context.Context, sid core.ConnID, data []byte) {
	var p filePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("bad shareFile payload")
		return
	}
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("file rate exceeded, dropped")
		return
	}
	// clients without upload storage inline the file body in fileData
	url := p.FileURL
	if url == "" {
		url = p.FileData
	}
	ctl.Coord.ShareFile(ctx, domain.RoomID(p.Room), &domain.Message{
		SenderID:   domain.UserID(p.SenderID),
		SenderName: p.SenderName,
		Content: domain.MessageContent{
			FileName: p.FileName,
			FileType: p.FileType,
			FileSize: p.FileSize,
			FileURL:  url,
		},
	})
}

type typingPayload struct {
	Room     string `json:"room"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

func (ctl *Controller) handleTyping(sid core.ConnID, data []byte) {
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("bad typing payload")
		return
	}
	ctl.Coord.Typing(sid, domain.RoomID(p.Room), app.TypingNotice{
		UserID:   domain.UserID(p.UserID),
		UserName: p.UserName,
		IsTyping: p.IsTyping,
	})
}
