package conversation

import (
	"github.com/looplab/fsm"

	"pazlcollab/internal/domain"
	"pazlcollab/internal/fieldmap"
)

// Kind classifies how a step consumes input.
type Kind int

const (
	// FreeText stores a validated text answer and advances.
	FreeText Kind = iota
	// FreeTextOther is the auxiliary step behind an "other" option; its
	// answer replaces the placeholder in the owning multi-select set.
	FreeTextOther
	// SingleSelect stores the chosen code verbatim and advances.
	SingleSelect
	// MultiSelect toggles codes until a "done" signal.
	MultiSelect
	// PhotoOrSkip is the terminal step; both branches finalize the draft.
	PhotoOrSkip
)

// Step state identifiers. They double as callback prefixes on the wire.
const (
	StepName           = "name"
	StepPhone          = "phone"
	StepTelegram       = "telegram"
	StepCity           = "city"
	StepSocial         = "social"
	StepDirection      = "direction"
	StepDirectionOther = "direction_other"
	StepMethods        = "methods"
	StepEducation      = "education"
	StepExperience     = "experience"
	StepWorkFormat     = "work_format"
	StepClientsCount   = "clients_count"
	StepAverageCheck   = "avg_check"
	StepRequests       = "requests"
	StepAudience       = "audience"
	StepPositioning    = "positioning"
	StepPhoto          = "photo"

	StateSubmitted = "submitted"
	StateCancelled = "cancelled"
)

// FSM events. The transition table below is the single declaration of the
// questionnaire graph.
const (
	EventAdvance = "advance"
	EventOther   = "other"
	EventCancel  = "cancel"
)

// Step describes one questionnaire step: its kind, the draft field it feeds,
// and its localized prompts. Selection steps reference a fieldmap table for
// their option set.
type Step struct {
	ID    string
	Kind  Kind
	Field string
	// MaxSelections bounds a multi-select set; 0 means unbounded.
	MaxSelections int
	// OtherStep, when set, is the auxiliary free-text step entered if the
	// "other" code is in the set on "done".
	OtherStep string

	prompt map[string]string
	reject map[string]string

	setText func(d *domain.Draft, v string)
	list    func(d *domain.Draft) *[]string
}

// Prompt returns the localized question text for the step.
func (s Step) Prompt(locale string) string {
	if t, ok := s.prompt[locale]; ok {
		return t
	}
	return s.prompt[domain.LocaleRU]
}

// Reject returns the localized re-prompt shown for invalid free-text input.
func (s Step) Reject(locale string) string {
	if t, ok := s.reject[locale]; ok {
		return t
	}
	return s.reject[domain.LocaleRU]
}

var steps = map[string]Step{
	StepName: {
		ID: StepName, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "📋 БЛОК 1: ЛИЧНЫЕ ДАННЫЕ И КОНТАКТЫ\n\nВведите ФИО:",
			domain.LocaleEN: "📋 BLOCK 1: PERSONAL DATA\n\nEnter full name:",
		},
		reject: map[string]string{
			domain.LocaleRU: "Пожалуйста, введите корректное ФИО.",
			domain.LocaleEN: "Please enter valid full name.",
		},
		setText: func(d *domain.Draft, v string) { d.Name = v },
	},
	StepPhone: {
		ID: StepPhone, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "Телефон/WhatsApp:",
			domain.LocaleEN: "Phone/WhatsApp:",
		},
		reject: map[string]string{
			domain.LocaleRU: "Введите корректный телефон.",
			domain.LocaleEN: "Enter valid phone.",
		},
		setText: func(d *domain.Draft, v string) { d.Phone = v },
	},
	StepTelegram: {
		ID: StepTelegram, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "Telegram (@username):",
			domain.LocaleEN: "Telegram (@username):",
		},
		reject: map[string]string{
			domain.LocaleRU: "Введите корректный Telegram.",
			domain.LocaleEN: "Enter valid Telegram.",
		},
		setText: func(d *domain.Draft, v string) { d.Telegram = v },
	},
	StepCity: {
		ID: StepCity, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "Ваш город:",
			domain.LocaleEN: "Your city:",
		},
		reject: map[string]string{
			domain.LocaleRU: "Введите корректный город.",
			domain.LocaleEN: "Enter valid city.",
		},
		setText: func(d *domain.Draft, v string) { d.City = v },
	},
	StepSocial: {
		ID: StepSocial, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "Instagram / основные социальные сети (укажите ссылки):",
			domain.LocaleEN: "Instagram / social media (provide links):",
		},
		reject: map[string]string{
			domain.LocaleRU: "Введите Instagram или соцсети.",
			domain.LocaleEN: "Enter Instagram or social media.",
		},
		setText: func(d *domain.Draft, v string) { d.Social = v },
	},
	StepDirection: {
		ID: StepDirection, Kind: MultiSelect,
		Field:     fieldmap.FieldDirection,
		OtherStep: StepDirectionOther,
		prompt: map[string]string{
			domain.LocaleRU: "📚 БЛОК 2: ПРОФЕССИОНАЛЬНАЯ ЭКСПЕРТИЗА\n\nВыберите основное направление деятельности (можно несколько):",
			domain.LocaleEN: "📚 BLOCK 2: PROFESSIONAL EXPERTISE\n\nSelect main direction (multiple choice):",
		},
		list: func(d *domain.Draft) *[]string { return &d.Directions },
	},
	StepDirectionOther: {
		ID: StepDirectionOther, Kind: FreeTextOther,
		prompt: map[string]string{
			domain.LocaleRU: "Укажите другое направление:",
			domain.LocaleEN: "Specify other direction:",
		},
		reject: map[string]string{
			domain.LocaleRU: "Укажите другое направление:",
			domain.LocaleEN: "Specify other direction:",
		},
		list: func(d *domain.Draft) *[]string { return &d.Directions },
	},
	StepMethods: {
		ID: StepMethods, Kind: MultiSelect,
		Field: fieldmap.FieldMethods,
		prompt: map[string]string{
			domain.LocaleRU: "Дополнительные методы и инструменты в работе (можно несколько):",
			domain.LocaleEN: "Additional methods and tools (multiple choice):",
		},
		list: func(d *domain.Draft) *[]string { return &d.Methods },
	},
	StepEducation: {
		ID: StepEducation, Kind: SingleSelect,
		Field: fieldmap.FieldEducation,
		prompt: map[string]string{
			domain.LocaleRU: "Базовое образование:",
			domain.LocaleEN: "Basic education:",
		},
		setText: func(d *domain.Draft, v string) { d.Education = v },
	},
	StepExperience: {
		ID: StepExperience, Kind: SingleSelect,
		Field: fieldmap.FieldExperience,
		prompt: map[string]string{
			domain.LocaleRU: "Стаж работы в профессии:",
			domain.LocaleEN: "Work experience:",
		},
		setText: func(d *domain.Draft, v string) { d.Experience = v },
	},
	StepWorkFormat: {
		ID: StepWorkFormat, Kind: MultiSelect,
		Field: fieldmap.FieldFormat,
		prompt: map[string]string{
			domain.LocaleRU: "💼 БЛОК 3: ФОРМАТ И ОБЪЕМ ПРАКТИКИ\n\nФормат работы (можно несколько):",
			domain.LocaleEN: "💼 BLOCK 3: WORK FORMAT\n\nWork format (multiple choice):",
		},
		list: func(d *domain.Draft) *[]string { return &d.WorkFormats },
	},
	StepClientsCount: {
		ID: StepClientsCount, Kind: SingleSelect,
		Field: fieldmap.FieldClients,
		prompt: map[string]string{
			domain.LocaleRU: "Среднее количество клиентов в месяц:",
			domain.LocaleEN: "Average number of clients per month:",
		},
		setText: func(d *domain.Draft, v string) { d.ClientsCount = v },
	},
	StepAverageCheck: {
		ID: StepAverageCheck, Kind: SingleSelect,
		Field: fieldmap.FieldAverageCheck,
		prompt: map[string]string{
			domain.LocaleRU: "Ваш средний чек:",
			domain.LocaleEN: "Your average check:",
		},
		setText: func(d *domain.Draft, v string) { d.AverageCheck = v },
	},
	StepRequests: {
		ID: StepRequests, Kind: MultiSelect,
		Field:         fieldmap.FieldRequests,
		MaxSelections: 7,
		prompt: map[string]string{
			domain.LocaleRU: "Какие задачи/запросы вы решаете для клиентов? (до 7 вариантов):",
			domain.LocaleEN: "What tasks/requests do you solve for clients? (up to 7):",
		},
		list: func(d *domain.Draft) *[]string { return &d.Requests },
	},
	StepAudience: {
		ID: StepAudience, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "👥 БЛОК 4: ЦЕЛЕВАЯ АУДИТОРИЯ И ПОЗИЦИОНИРОВАНИЕ\n\nОпишите вашу целевую аудиторию: пол, возраст, социальный статус, уровень дохода, география (1–2 предложения):",
			domain.LocaleEN: "👥 BLOCK 4: TARGET AUDIENCE\n\nDescribe your target audience: gender, age, social status, income, geography (1–2 sentences):",
		},
		reject: map[string]string{
			domain.LocaleRU: "Введите описание целевой аудитории.",
			domain.LocaleEN: "Enter target audience description.",
		},
		setText: func(d *domain.Draft, v string) { d.Audience = v },
	},
	StepPositioning: {
		ID: StepPositioning, Kind: FreeText,
		prompt: map[string]string{
			domain.LocaleRU: "Как вы себя позиционируете? В чем ваша уникальность? (1–3 предложения):",
			domain.LocaleEN: "How do you position yourself? What makes you unique? (1–3 sentences):",
		},
		reject: map[string]string{
			domain.LocaleRU: "Введите уникальность.",
			domain.LocaleEN: "Enter uniqueness.",
		},
		setText: func(d *domain.Draft, v string) { d.Positioning = v },
	},
	StepPhoto: {
		ID: StepPhoto, Kind: PhotoOrSkip,
		prompt: map[string]string{
			domain.LocaleRU: "📸 Отправьте фото профиля (или нажмите «Пропустить» для резервного):",
			domain.LocaleEN: "📸 Send a profile photo (or press 'Skip' for default):",
		},
	},
}

// flowOrder is the default linear order; only the "other" branch and
// cancellation deviate from it.
var flowOrder = []string{
	StepName, StepPhone, StepTelegram, StepCity, StepSocial,
	StepDirection, StepMethods, StepEducation, StepExperience,
	StepWorkFormat, StepClientsCount, StepAverageCheck, StepRequests,
	StepAudience, StepPositioning, StepPhoto,
}

// newFlowFSM declares the whole questionnaire graph once: the linear advance
// chain, the "other" detour and its rejoin, and the terminal states.
func newFlowFSM() *fsm.FSM {
	events := fsm.Events{}
	for i, id := range flowOrder {
		dst := StateSubmitted
		if i+1 < len(flowOrder) {
			dst = flowOrder[i+1]
		}
		events = append(events, fsm.EventDesc{Name: EventAdvance, Src: []string{id}, Dst: dst})
	}
	// The "other" detour leaves the direction step and rejoins where a plain
	// advance would have gone.
	events = append(events,
		fsm.EventDesc{Name: EventOther, Src: []string{StepDirection}, Dst: StepDirectionOther},
		fsm.EventDesc{Name: EventAdvance, Src: []string{StepDirectionOther}, Dst: StepMethods},
	)
	all := append([]string{StepDirectionOther}, flowOrder...)
	events = append(events, fsm.EventDesc{Name: EventCancel, Src: all, Dst: StateCancelled})

	return fsm.NewFSM(StepName, events, fsm.Callbacks{})
}
