package ai

import (
	"fmt"
	"strings"
)

const rewritePrompt = `你是一个懂职场、有温度、幽默感爆棚的“树洞AI”。
用户刚经历了一场职场委屈/压力，内容是： "%s"

请按以下格式回复（确保字里行间流露出对用户的坚定支持）：

1. 【同频共情】：先站在用户这一边，狠狠地替用户出气，用温暖又毒舌的语言承认TA的辛苦（例如：“这老板脑子是被甲方踢了吗？”）。
2. 【优雅黑话】：将原意转化为三句不同风格的“职场黑话”：
   - 官方专业体
   - 阴阳怪气高情商体
   - 极度冷漠专业感体

要求：加入高级感 emoji（✨, ☕️, 🕊️, 🥂, 💎, 🕯️, ⌛）。
输出格式：一段温暖的共情文字，接着是三个黑话选项。不要输出多余的引导词。`

const firstAidPrompt = `你是一个温暖、专业的女性职场心理医生。
用户刚经历了一次不愉快的职场事件： "%s"
请从认知重构的角度，给出一个温暖的、支持性的三步走心理急救建议：
1. 情绪接纳。
2. 视角转换。
3. 微小行动建议。
字数控制在200字以内，语气要温柔、坚定，适当使用温暖的表情符号。`

const affirmationPrompt = "为职场女性生成一条基于心理学逻辑的每日成长肯定语。包含一句金句和一个作者。输出JSON格式。"

const avatarPrompt = `Create a minimalist, healing-style artistic profile avatar for a professional woman.
Subject description: A female %s, mood is %s.
Style: Soft pastel colors, clean lines, flat design or soft watercolor texture.
Aesthetic: Modern, elegant, inspiring.
Composition: square 1:1 framing, head and shoulders centered.
No text, no realistic photos, artistic representation only.`

func BuildRewritePrompt(complaint string) string {
	return fmt.Sprintf(rewritePrompt, strings.TrimSpace(complaint))
}

func BuildFirstAidPrompt(context string) string {
	return fmt.Sprintf(firstAidPrompt, strings.TrimSpace(context))
}

// BuildAvatarPrompt fills blank job/mood with neutral defaults.
func BuildAvatarPrompt(jobTitle, mood string) string {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		jobTitle = "professional"
	}
	mood = strings.TrimSpace(mood)
	if mood == "" {
		mood = "calm"
	}
	return fmt.Sprintf(avatarPrompt, jobTitle, mood)
}
