package model

type Tab string

const (
	TabHome     Tab = "home"
	TabMeditate Tab = "meditate"
	TabShredder Tab = "shredder"
	TabTreeHole Tab = "treehole"
	TabTools    Tab = "tools"
	TabStore    Tab = "store"
	TabAuth     Tab = "auth"
)

const SeenTutorialsKey = "hs_seen_tab_tutorials"

func (t Tab) Valid() bool {
	switch t {
	case TabHome, TabMeditate, TabShredder, TabTreeHole, TabTools, TabStore, TabAuth:
		return true
	}
	return false
}

type Tutorial struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Tip         string `json:"tip"`
}

var tutorials = map[Tab]Tutorial{
	TabHome: {
		Title:       "欢迎来到泄愤场",
		Description: "这是你的私人主控室。你可以点击“捶死小人”释放压力，或者通过快捷入口进入其他功能。",
		Icon:        "🥊",
		Tip:         "提示：点击小人可以积攒点数，每日签到也能获得能量。",
	},
	TabMeditate: {
		Title:       "3分钟精神离职",
		Description: "在这里选择一个治愈场景，跟随呼吸圆环的节奏，进行短暂的沉浸式逃离。",
		Icon:        "🧘‍♀️",
		Tip:         "提示：戴上耳机体验白噪音，效果更佳。",
	},
	TabShredder: {
		Title:       "吐槽碎纸机",
		Description: "输入那些让你不爽的职场瞬间，点击粉碎。AI会将你的愤怒转化为优雅的职场体。",
		Icon:        "✂️",
		Tip:         "提示：碎纸时会有解压的音效，请尽情释放。",
	},
	TabTreeHole: {
		Title:       "温暖互助树洞",
		Description: "在这里分享你的“微光成就”。没有杠精和评判，只有来自姐妹们的鲜花与拥抱。",
		Icon:        "🌿",
		Tip:         "提示：发布动态或回复他人可以获得点数奖励。",
	},
	TabTools: {
		Title:       "职场急救箱",
		Description: "针对重大会议前、受委屈时或下班离岗，我们为你准备了专门的心理重建引导。",
		Icon:        "🩹",
		Tip:         "提示：点击相应的卡片即可开启针对性的引导流程。",
	},
}

// TutorialFor returns the onboarding content of a tab, if it has any.
func TutorialFor(t Tab) (Tutorial, bool) {
	tut, ok := tutorials[t]
	return tut, ok
}
