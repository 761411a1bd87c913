package fieldmap

// Option is one selectable answer: the internal code stored in drafts and the
// localized label shown to users and written to the record store.
type Option struct {
	Code  string
	Label string
}

// Field names understood by the mapping layer.
const (
	FieldDirection    = "Direction"
	FieldMethods      = "Methods"
	FieldEducation    = "Education"
	FieldExperience   = "Experience"
	FieldFormat       = "Format"
	FieldClients      = "Clients"
	FieldAverageCheck = "AverageCheck"
	FieldRequests     = "Requests"
)

// OtherCode marks the option that redirects to a free-text follow-up.
const OtherCode = "other"

var directionRU = []Option{
	{"coaching_life", "Коучинг (лайф-коучинг)"},
	{"coaching_business", "Коучинг (бизнес-коучинг)"},
	{"coaching_career", "Коучинг (карьерный)"},
	{"psych_clinical", "Психология (клиническая практика)"},
	{"psych_consulting", "Психология (консультирование)"},
	{"therapy_cbt", "Психотерапия (КПТ)"},
	{"therapy_gestalt", "Психотерапия (гештальт-терапия)"},
	{"therapy_psychoanalysis", "Психотерапия (психоанализ)"},
	{"therapy_schema", "Психотерапия (схема-терапия)"},
	{"body_therapy", "Телесно-ориентированная терапия"},
	{"hypnotherapy", "Работа с подсознанием (гипнотерапия)"},
	{"regression_therapy", "Работа с подсознанием (регрессивная терапия)"},
	{"astrology", "Астрология"},
	{"energy_practices", "Энергетические практики"},
	{"nutrition", "Нутрициология"},
	{"yoga_therapy", "Йога-терапия"},
	{OtherCode, "Другое"},
}

var directionEN = []Option{
	{"coaching_life", "Coaching (life coaching)"},
	{"coaching_business", "Coaching (business coaching)"},
	{"coaching_career", "Coaching (career)"},
	{"psych_clinical", "Psychology (clinical practice)"},
	{"psych_consulting", "Psychology (consulting)"},
	{"therapy_cbt", "Psychotherapy (CBT)"},
	{"therapy_gestalt", "Psychotherapy (gestalt therapy)"},
	{"therapy_psychoanalysis", "Psychotherapy (psychoanalysis)"},
	{"therapy_schema", "Psychotherapy (schema therapy)"},
	{"body_therapy", "Body-oriented therapy"},
	{"hypnotherapy", "Subconscious work (hypnotherapy)"},
	{"regression_therapy", "Subconscious work (regression therapy)"},
	{"astrology", "Astrology"},
	{"energy_practices", "Energy practices"},
	{"nutrition", "Nutrition"},
	{"yoga_therapy", "Yoga therapy"},
	{OtherCode, "Other"},
}

var methodsRU = []Option{
	{"nlp", "НЛП"},
	{"constellations", "Системные расстановки"},
	{"art_therapy", "Арт-терапия"},
	{"mac", "МАК"},
	{"meditation", "Медитативные практики"},
	{"breathing", "Дыхательные практики"},
	{"ancestral_work", "Работа с родовыми сценариями"},
	{"human_design", "Human Design"},
	{OtherCode, "Другое"},
}

var methodsEN = []Option{
	{"nlp", "NLP"},
	{"constellations", "Systemic constellations"},
	{"art_therapy", "Art therapy"},
	{"mac", "MAC (Metaphorical Associative Cards)"},
	{"meditation", "Meditative practices"},
	{"breathing", "Breathing practices"},
	{"ancestral_work", "Ancestral scenario work"},
	{"human_design", "Human Design"},
	{OtherCode, "Other"},
}

var educationRU = []Option{
	{"psych_higher", "Высшее психологическое"},
	{"medical_higher", "Высшее медицинское"},
	{"pedagogical_higher", "Высшее педагогическое"},
	{"other_higher", "Высшее другое"},
	{"secondary", "Среднее специальное"},
	{"none", "Нет профильного образования"},
}

var educationEN = []Option{
	{"psych_higher", "Higher psychological"},
	{"medical_higher", "Higher medical"},
	{"pedagogical_higher", "Higher pedagogical"},
	{"other_higher", "Higher other"},
	{"secondary", "Secondary specialized"},
	{"none", "No specialized education"},
}

var experienceRU = []Option{
	{"less_1", "Менее 1 года"},
	{"1_2", "1-2 года"},
	{"2_3", "2-3 года"},
	{"3_5", "3-5 лет"},
	{"5_7", "5-7 лет"},
	{"7_10", "7-10 лет"},
	{"more_10", "Более 10 лет"},
}

var experienceEN = []Option{
	{"less_1", "Less than 1 year"},
	{"1_2", "1-2 years"},
	{"2_3", "2-3 years"},
	{"3_5", "3-5 years"},
	{"5_7", "5-7 years"},
	{"7_10", "7-10 years"},
	{"more_10", "More than 10 years"},
}

var workFormatRU = []Option{
	{"individual_online", "Индивидуальные сессии (онлайн)"},
	{"individual_offline", "Индивидуальные сессии (офлайн)"},
	{"group_online", "Групповые программы (онлайн)"},
	{"group_offline", "Групповые программы (офлайн)"},
	{"marathons", "Марафоны/челленджи"},
	{"intensives", "Интенсивы/ретриты"},
	{"courses", "Обучающие курсы"},
	{"webinars", "Вебинары/мастер-классы"},
}

var workFormatEN = []Option{
	{"individual_online", "Individual sessions (online)"},
	{"individual_offline", "Individual sessions (offline)"},
	{"group_online", "Group programs (online)"},
	{"group_offline", "Group programs (offline)"},
	{"marathons", "Marathons/challenges"},
	{"intensives", "Intensives/retreats"},
	{"courses", "Training courses"},
	{"webinars", "Webinars/master classes"},
}

var clientsCountRU = []Option{
	{"1_5", "1-5 клиентов"},
	{"5_10", "5-10 клиентов"},
	{"10_15", "10-15 клиентов"},
	{"15_20", "15-20 клиентов"},
	{"20_30", "20-30 клиентов"},
	{"more_30", "Более 30 клиентов"},
}

var clientsCountEN = []Option{
	{"1_5", "1-5 clients"},
	{"5_10", "5-10 clients"},
	{"10_15", "10-15 clients"},
	{"15_20", "15-20 clients"},
	{"20_30", "20-30 clients"},
	{"more_30", "More than 30 clients"},
}

var averageCheckRU = []Option{
	{"under_10k", "до 10 тыс рублей"},
	{"10_30k", "10-30 тыс"},
	{"30_50k", "30-50 тыс"},
	{"50_100k", "50-100 тыс"},
	{"over_100k", "от 100 тыс"},
}

var averageCheckEN = []Option{
	{"under_10k", "up to 10k rubles"},
	{"10_30k", "10-30k rubles"},
	{"30_50k", "30-50k rubles"},
	{"50_100k", "50-100k rubles"},
	{"over_100k", "over 100k rubles"},
}

var requestsRU = []Option{
	{"anxiety", "Тревожность, панические атаки, страхи"},
	{"depression", "Депрессия, апатия, потеря смысла"},
	{"self_esteem", "Самооценка и уверенность"},
	{"partner_relations", "Отношения с партнером"},
	{"partner_search", "Поиск партнера, одиночество"},
	{"breakup", "Расставание, развод"},
	{"parent_child", "Детско-родительские отношения"},
	{"parent_relations", "Отношения с родителями"},
	{"burnout", "Профессиональное выгорание"},
	{"purpose_search", "Поиск предназначения"},
	{"career", "Карьерные вопросы"},
	{"financial_blocks", "Финансовые блоки"},
	{"goal_setting", "Целеполагание"},
	{"procrastination", "Прокрастинация, мотивация"},
	{"women_topics", "Женские темы"},
	{"men_topics", "Мужские темы"},
	{"psychosomatics", "Психосоматика"},
	{"trauma", "Работа с травмой (ПТСР)"},
	{"internal_parts", "Работа с внутренними частями"},
	{"spiritual_development", "Духовное развитие"},
	{OtherCode, "Другое"},
}

var requestsEN = []Option{
	{"anxiety", "Anxiety, panic attacks, fears"},
	{"depression", "Depression, apathy, loss of meaning"},
	{"self_esteem", "Self-esteem and confidence"},
	{"partner_relations", "Relationships with partner"},
	{"partner_search", "Finding a partner, loneliness"},
	{"breakup", "Breakup, divorce, loss"},
	{"parent_child", "Parent-child relationships"},
	{"parent_relations", "Relationships with parents"},
	{"burnout", "Professional burnout"},
	{"purpose_search", "Purpose search, life path"},
	{"career", "Career issues, professional change"},
	{"financial_blocks", "Financial blocks, money relationships"},
	{"goal_setting", "Goal setting, achieving goals"},
	{"procrastination", "Procrastination, motivation"},
	{"women_topics", "Women's topics"},
	{"men_topics", "Men's topics"},
	{"psychosomatics", "Psychosomatics"},
	{"trauma", "Trauma work (PTSD)"},
	{"internal_parts", "Working with inner parts of personality"},
	{"spiritual_development", "Spiritual development, self-search"},
	{OtherCode, "Other"},
}

// requestAliases are legacy codes that drifted in older clients but still map
// to the same labels. Kept as aliases deliberately; do not collapse.
var requestAliases = map[string]string{
	"selfesteem":           "self_esteem",
	"relationship_partner": "partner_relations",
	"find_partner":         "partner_search",
	"parents":              "parent_relations",
	"purpose":              "purpose_search",
	"financial":            "financial_blocks",
	"inner_parts":          "internal_parts",
	"spiritual":            "spiritual_development",
}

var tables = map[string]map[string][]Option{
	FieldDirection:    {"ru": directionRU, "en": directionEN},
	FieldMethods:      {"ru": methodsRU, "en": methodsEN},
	FieldEducation:    {"ru": educationRU, "en": educationEN},
	FieldExperience:   {"ru": experienceRU, "en": experienceEN},
	FieldFormat:       {"ru": workFormatRU, "en": workFormatEN},
	FieldClients:      {"ru": clientsCountRU, "en": clientsCountEN},
	FieldAverageCheck: {"ru": averageCheckRU, "en": averageCheckEN},
	FieldRequests:     {"ru": requestsRU, "en": requestsEN},
}
