package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// GiftConfig 礼物内容配置
// 每个分组均为可选，nil 表示发送者未填写该分组；
// 分组缺失直接决定接收端揭示阶段是否出现。
type GiftConfig struct {
	Identity    *IdentityGroup    `json:"identity,omitempty"`
	Message     *MessageGroup     `json:"message,omitempty"`
	Puzzle      *PuzzleGroup      `json:"puzzle,omitempty"`
	Interaction *InteractionGroup `json:"interaction,omitempty"`
	Visuals     *VisualsGroup     `json:"visuals,omitempty"`
	Closing     *ClosingGroup     `json:"closing,omitempty"`
}

// IdentityGroup 身份分组（唯一必填分组）
type IdentityGroup struct {
	SenderName        string `json:"sender_name"`
	RecipientName     string `json:"recipient_name"`
	Date              string `json:"date,omitempty"`
	SenderLocation    string `json:"sender_location,omitempty"`
	RecipientLocation string `json:"recipient_location,omitempty"`
}

// Letter 信件内容
type Letter struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// LoveCoupon 赠言券（送给接收者的小承诺，与支付优惠码无关）
type LoveCoupon struct {
	Title string `json:"title"`
	Note  string `json:"note,omitempty"`
}

// MessageGroup 主信息分组
type MessageGroup struct {
	Body    string       `json:"body"`
	Letters []Letter     `json:"letters,omitempty"`
	Coupons []LoveCoupon `json:"coupons,omitempty"`
}

// PuzzleGroup 谜题分组
type PuzzleGroup struct {
	SecretWord string `json:"secret_word"`
	Hint       string `json:"hint,omitempty"`
}

// InteractionGroup 互动分组
type InteractionGroup struct {
	Question  string   `json:"question,omitempty"`  // 告白/求婚问题
	Activity  string   `json:"activity,omitempty"`  // 约定的活动
	Responses []string `json:"responses,omitempty"` // 回忆对话消息
}

// VisualsGroup 视觉分组
type VisualsGroup struct {
	Photos      StringArray `json:"photos,omitempty"`
	LoveLevel   int         `json:"love_level,omitempty"`
	StyleChoice string      `json:"style_choice,omitempty"`
}

// ClosingGroup 结尾分组
type ClosingGroup struct {
	FinalMessage string `json:"final_message"`
}

// Value 实现 driver.Valuer 接口
func (c GiftConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan 实现 sql.Scanner 接口
func (c *GiftConfig) Scan(value interface{}) error {
	if value == nil {
		*c = GiftConfig{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, c)
}

// Merge 按分组级别合并传入配置（提供的分组整组替换，未提供的保持不变）
func (c *GiftConfig) Merge(patch GiftConfig) {
	if patch.Identity != nil {
		c.Identity = patch.Identity
	}
	if patch.Message != nil {
		c.Message = patch.Message
	}
	if patch.Puzzle != nil {
		c.Puzzle = patch.Puzzle
	}
	if patch.Interaction != nil {
		c.Interaction = patch.Interaction
	}
	if patch.Visuals != nil {
		c.Visuals = patch.Visuals
	}
	if patch.Closing != nil {
		c.Closing = patch.Closing
	}
}

// HasLetters 是否配置了信件
func (c GiftConfig) HasLetters() bool {
	return c.Message != nil && len(c.Message.Letters) > 0
}

// HasPhotos 是否配置了照片
func (c GiftConfig) HasPhotos() bool {
	return c.Visuals != nil && len(c.Visuals.Photos) > 0
}

// HasConversation 是否配置了回忆对话
func (c GiftConfig) HasConversation() bool {
	return c.Interaction != nil && len(c.Interaction.Responses) > 0
}

// HasProposal 是否配置了告白问题
func (c GiftConfig) HasProposal() bool {
	return c.Interaction != nil && strings.TrimSpace(c.Interaction.Question) != ""
}

// HasLocations 是否同时配置了双方位置
func (c GiftConfig) HasLocations() bool {
	return c.Identity != nil &&
		strings.TrimSpace(c.Identity.SenderLocation) != "" &&
		strings.TrimSpace(c.Identity.RecipientLocation) != ""
}

// MessageLines 将主信息正文拆分为逐行揭示的行
func (c GiftConfig) MessageLines() []string {
	if c.Message == nil {
		return nil
	}
	raw := strings.Split(c.Message.Body, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}
