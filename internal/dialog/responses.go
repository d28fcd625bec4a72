package dialog

// Responses holds the user-facing message templates. All fields have
// Korean defaults and may be overridden from the bot profile file.
type Responses struct {
	WelcomeTitle  string `yaml:"welcome_title"`
	WelcomeBody   string `yaml:"welcome_body"`
	Help          string `yaml:"help"`
	CancelAck     string `yaml:"cancel_ack"`
	CancelNothing string `yaml:"cancel_nothing"`
	OrderPrompt   string `yaml:"order_prompt"`
	NotUnderstood string `yaml:"not_understood"`
	Balance       string `yaml:"balance"`
	BuySuffix     string `yaml:"buy_suffix"`
	SellSuffix    string `yaml:"sell_suffix"`
	ChangeAccount string `yaml:"change_account"`
	Confirm       string `yaml:"confirm"`
	AskName       string `yaml:"ask_name"`
	AskCity       string `yaml:"ask_city"`
	GreetAck      string `yaml:"greet_ack"`
}

// DefaultResponses returns the built-in message templates.
func DefaultResponses() Responses {
	return Responses{
		WelcomeTitle:  "환영합니다",
		WelcomeBody:   "주식 매매를 도와드리는 봇입니다. 종목, 수량, 단가를 말씀해 주세요.",
		Help:          "매수/매도 주문과 잔고 조회를 도와드립니다.\n예: 신한지주 10주 현재가 매수",
		CancelAck:     "취소했습니다.",
		CancelNothing: "취소할 작업이 없습니다.",
		OrderPrompt:   "종목, 수량, 단가를 모두 입력해 주세요.",
		NotUnderstood: "죄송합니다. 이해하지 못했습니다. 다시 말씀해 주세요.",
		Balance:       "잔고를 조회합니다.",
		BuySuffix:     "매수하시겠습니까?",
		SellSuffix:    "매도하시겠습니까?",
		ChangeAccount: "계좌 변경",
		Confirm:       "확인",
		AskName:       "성함이 어떻게 되세요?",
		AskCity:       "어느 도시에 사세요?",
		GreetAck:      "%s에 사시는 %s님, 만나서 반갑습니다!",
	}
}

// merge fills empty fields from the defaults so a partial profile file
// stays usable.
func (r Responses) merge() Responses {
	defaults := DefaultResponses()
	if r.WelcomeTitle == "" {
		r.WelcomeTitle = defaults.WelcomeTitle
	}
	if r.WelcomeBody == "" {
		r.WelcomeBody = defaults.WelcomeBody
	}
	if r.Help == "" {
		r.Help = defaults.Help
	}
	if r.CancelAck == "" {
		r.CancelAck = defaults.CancelAck
	}
	if r.CancelNothing == "" {
		r.CancelNothing = defaults.CancelNothing
	}
	if r.OrderPrompt == "" {
		r.OrderPrompt = defaults.OrderPrompt
	}
	if r.NotUnderstood == "" {
		r.NotUnderstood = defaults.NotUnderstood
	}
	if r.Balance == "" {
		r.Balance = defaults.Balance
	}
	if r.BuySuffix == "" {
		r.BuySuffix = defaults.BuySuffix
	}
	if r.SellSuffix == "" {
		r.SellSuffix = defaults.SellSuffix
	}
	if r.ChangeAccount == "" {
		r.ChangeAccount = defaults.ChangeAccount
	}
	if r.Confirm == "" {
		r.Confirm = defaults.Confirm
	}
	if r.AskName == "" {
		r.AskName = defaults.AskName
	}
	if r.AskCity == "" {
		r.AskCity = defaults.AskCity
	}
	if r.GreetAck == "" {
		r.GreetAck = defaults.GreetAck
	}
	return r
}

// Merged returns the responses with defaults applied.
func (r Responses) Merged() Responses {
	return r.merge()
}
