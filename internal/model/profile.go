package model

// Preference keys, kept identical to the ones the web client used.
const (
	PrefNickname    = "hs_nickname"
	PrefAvatar      = "hs_avatar"
	PrefAddress     = "hs_address"
	PrefJob         = "hs_job"
	PrefMental      = "hs_mental"
	PrefBirthday    = "hs_birthday"
	PrefXiaohongshu = "hs_xhs"
	PrefWechat      = "hs_wechat"
	PrefPhone       = "hs_phone"
	PrefWechatBound = "hs_is_wechat_bound"
	PrefAppleBound  = "hs_is_apple_bound"
	PrefMood        = "herspace_mood"
	PrefMotto       = "herspace_motto"
)

// PrefDefaults holds the fallback for every key absent from storage.
var PrefDefaults = map[string]string{
	PrefNickname:    "HerSpace 密友",
	PrefAvatar:      "👑",
	PrefAddress:     "地球某个角落",
	PrefJob:         "全能打工人",
	PrefMental:      "优雅搬砖",
	PrefBirthday:    "",
	PrefXiaohongshu: "",
	PrefWechat:      "",
	PrefPhone:       "",
	PrefWechatBound: "false",
	PrefAppleBound:  "false",
	PrefMood:        "平静 🕊️",
	PrefMotto:       "我足够好，无需证明。",
}

type Profile struct {
	Nickname    string `json:"nickname"`
	Avatar      string `json:"avatar"`
	Address     string `json:"address"`
	JobTitle    string `json:"jobTitle"`
	MentalState string `json:"mentalState"`
	Birthday    string `json:"birthday"`
	Xiaohongshu string `json:"xiaohongshu"`
	Wechat      string `json:"wechat"`
	Phone       string `json:"phone"`
	WechatBound bool   `json:"isWechatBound"`
	AppleBound  bool   `json:"isAppleBound"`
	Mood        string `json:"mood"`
	Motto       string `json:"motto"`
}

// ProfileUpdate carries the fields a client wants to change; nil means untouched.
type ProfileUpdate struct {
	Nickname    *string `json:"nickname"`
	Avatar      *string `json:"avatar"`
	Address     *string `json:"address"`
	JobTitle    *string `json:"jobTitle"`
	MentalState *string `json:"mentalState"`
	Birthday    *string `json:"birthday"`
	Xiaohongshu *string `json:"xiaohongshu"`
	Wechat      *string `json:"wechat"`
	Phone       *string `json:"phone"`
	Mood        *string `json:"mood"`
	Motto       *string `json:"motto"`
}
