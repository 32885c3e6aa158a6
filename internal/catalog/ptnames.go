package catalog

// nameAlias maps a Portuguese exercise name to the canonical English name used
// in the catalog. Aliases are checked in declared order so that more specific
// names ("supino inclinado") win over generic ones ("supino").
type nameAlias struct {
	pt string
	en string
}

var nameAliases = []nameAlias{
	// Peito
	{"supino reto", "barbell bench press"},
	{"supino inclinado", "incline bench press"},
	{"supino declinado", "decline bench press"},
	{"supino", "bench press"},
	{"crucifixo", "dumbbell fly"},
	{"peck deck", "pec deck"},
	{"flexao de braco", "push up"},
	{"flexao", "push up"},

	// Costas
	{"puxada frontal", "lat pulldown"},
	{"pulldown", "lat pulldown"},
	{"puxada", "pulldown"},
	{"remada curvada", "bent over row"},
	{"remada alta", "upright row"},
	{"remada", "row"},
	{"barra fixa", "pull up"},
	{"levantamento terra", "deadlift"},
	{"terra", "deadlift"},

	// Pernas
	{"agachamento", "squat"},
	{"leg press", "leg press"},
	{"cadeira extensora", "leg extension"},
	{"cadeira flexora", "leg curl"},
	{"extensora", "leg extension"},
	{"flexora", "leg curl"},
	{"stiff", "stiff"},
	{"elevacao de panturrilha", "calf raise"},
	{"panturrilha", "calf raise"},
	{"afundo", "lunge"},

	// Ombros
	{"desenvolvimento militar", "military press"},
	{"desenvolvimento", "shoulder press"},
	{"elevacao lateral", "lateral raise"},
	{"elevacao frontal", "front raise"},

	// Bíceps
	{"rosca direta", "bicep curl"},
	{"rosca alternada", "alternating bicep curl"},
	{"rosca martelo", "hammer curl"},
	{"rosca scott", "preacher curl"},
	{"rosca", "curl"},

	// Tríceps
	{"triceps testa", "skull crusher"},
	{"triceps corda", "tricep rope pushdown"},
	{"triceps pulley", "tricep pushdown"},
	{"triceps", "tricep"},
	{"mergulho", "dip"},
	{"frances", "overhead extension"},

	// Abdômen
	{"abdominal infra", "reverse crunch"},
	{"abdominal", "crunch"},
	{"prancha", "plank"},
	{"elevacao de pernas", "leg raise"},

	// Cardio
	{"corrida", "running"},
	{"esteira", "treadmill"},
	{"bicicleta", "cycling"},
	{"bike", "bike"},
}
