package normalize

// Static lookup tables for lexical cleanup and facet extraction.
// Tables that are substituted in sequence are kept as ordered pairs so
// evaluation order is deterministic and independently testable.

// mapping is one substitution rule.
type mapping struct {
	from string
	to   string
}

// abbreviations expands informal shorthand token-wise. Runs before
// spelling correction so expansions are not "corrected" away.
var abbreviations = map[string]string{
	"u": "you", "r": "are", "ur": "your", "cn": "can", "cud": "could",
	"shud": "should", "wud": "would", "abt": "about", "bcz": "because",
	"plz": "please", "pls": "please", "tmrw": "tomorrow", "wat": "what",
	"info": "information", "yr": "year", "sem": "semester",
	"admsn": "admission", "clg": "college", "sch": "school", "uni": "university",
	"cresnt": "crescent", "l": "level", "d": "the", "msg": "message",
	"dept": "department", "reg": "registration", "fee": "fees", "pg": "postgraduate",
	"app": "application", "req": "requirement", "nd": "national diploma",
	"alevel": "advanced level", "2nd": "second", "1st": "first",
	"nxt": "next", "prev": "previous", "exp": "experience",
	"csc": "computer science", "acc": "accounting",
}

// synonyms folds domain vocabulary onto canonical terms. Runs after
// spelling correction so corrected words still hit the table.
var synonyms = map[string]string{
	"lecturers": "academic staff", "professors": "academic staff",
	"teachers": "academic staff", "instructors": "academic staff",
	"tutors": "academic staff", "hod": "head of department",
	"school": "university", "college": "faculty",
	"class": "course", "subject": "course", "unit": "credit",
	"hostel": "accommodation", "lodging": "accommodation", "room": "accommodation",
	"fees": "tuition", "enrol": "apply", "join": "apply", "admit": "apply",
	"requirement": "criteria", "conditions": "criteria", "needed": "required",
}

// slangNormalizations rewrites informal department and term phrasing
// before facet extraction. Order matters: longer phrases first so
// "nursing science" wins over "nursing".
var slangNormalizations = []mapping{
	{"comp sci", "computer science"},
	{"mass comm", "mass communication"},
	{"masscom", "mass communication"},
	{"nursing science", "nursing"},
	{"nursin", "nursing"},
	{"physio", "physiology"},
	{"microbio", "microbiology"},
	{"biochem", "biochemistry"},
	{"biz admin", "business administration"},
	{"bus admin", "business administration"},
	{"account", "accounting"},
	{"law school", "law"},
	{"pol sci", "political science and international studies"},
	{"econs", "economics with operations research"},
	{"arch", "architecture"},
	{"first sem", "first semester"},
	{"second sem", "second semester"},
	{"100lvl", "100 level"},
	{"200lvl", "200 level"},
	{"300lvl", "300 level"},
	{"400lvl", "400 level"},
}

// departments is the fixed department vocabulary.
var departments = []string{
	"computer science", "anatomy", "biochemistry", "accounting",
	"business administration", "political science and international studies",
	"microbiology", "economics with operations research", "mass communication",
	"law", "nursing", "physiology", "architecture",
}

// departmentFaculty maps each department to its faculty.
var departmentFaculty = map[string]string{
	"computer science":                              "CONAS",
	"anatomy":                                       "COHES",
	"biochemistry":                                  "CONAS",
	"accounting":                                    "CASMAS",
	"business administration":                       "CASMAS",
	"political science and international studies":   "CASMAS",
	"microbiology":                                  "CONAS",
	"economics with operations research":            "CASMAS",
	"mass communication":                            "CASMAS",
	"law":                                           "BACOLAW",
	"nursing":                                       "COHES",
	"physiology":                                    "COHES",
	"architecture":                                  "COES",
}

// wordFrequencies is the corpus-frequency dictionary backing the spell
// corrector. A token already present here is assumed correct; unknown
// tokens are matched against it by edit distance, ties broken by
// frequency. The list mixes high-frequency English with the campus
// vocabulary queries actually use.
var wordFrequencies = map[string]int64{
	// Function words.
	"the": 23135851162, "of": 13151942776, "and": 12997637966,
	"to": 12136980858, "a": 9081174698, "in": 8469404971,
	"for": 5933321709, "is": 4705743816, "on": 3750423199,
	"that": 3400031103, "by": 3350048871, "this": 3228469771,
	"with": 3183110675, "i": 3086225277, "you": 2996181025,
	"it": 2813163874, "not": 2633487141, "or": 2590739907,
	"are": 2448875251, "from": 2275595356, "at": 2272272772,
	"as": 2247431740, "your": 2062066547, "all": 2022459848,
	"have": 1564202750, "new": 1551258643, "more": 1544771673,
	"an": 1518266684, "was": 1483428678, "we": 1390661912,
	"will": 1356293641, "can": 1242323499, "about": 1226734006,
	"if": 1134290138, "my": 1059793441, "has": 1046319984,
	"what": 908705570, "which": 810514085, "their": 782849411,
	"when": 757499737, "who": 664516824, "how": 639540098,
	"where": 450503348, "do": 554043542, "does": 180419645,
	"need": 355715013, "get": 521403560, "many": 341566988,
	// Campus vocabulary.
	"university": 258607997, "course": 199374786, "courses": 97552766,
	"level": 219940206, "semester": 14501474, "department": 59368747,
	"faculty": 29292489, "admission": 20962610, "admissions": 11124327,
	"requirements": 37090960, "requirement": 11510943, "criteria": 21040524,
	"registration": 44140666, "tuition": 9331505, "accommodation": 24129131,
	"student": 111267066, "students": 143380861, "staff": 101419693,
	"academic": 40608314, "science": 110777794, "computer": 168864317,
	"nursing": 17068472, "law": 147849761, "accounting": 21691922,
	"business": 256767865, "administration": 32005206, "anatomy": 5274728,
	"biochemistry": 4340083, "microbiology": 4527808, "physiology": 5395456,
	"architecture": 31346596, "economics": 19935561, "political": 51016406,
	"mass": 31751560, "communication": 37458252, "international": 198782467,
	"studies": 55025724, "first": 578161543, "second": 246175812,
	"apply": 50470380, "application": 62572803, "certificate": 17137603,
	"fees": 29519278, "year": 459874117, "credit": 85624260,
	"units": 28129001, "campus": 27127199, "hostel": 3508766,
	"college": 106154201, "crescent": 3983436, "transcript": 2183606,
	"lecture": 6533500, "lectures": 4829936, "lecturers": 2343727,
	"exam": 13264374,
	"exams": 6564158, "result": 47000295, "results": 252747686,
	"postgraduate": 4846267, "undergraduate": 9978032, "degree": 40378154,
	"scholarship": 7251551, "waec": 120000, "jamb": 95000,
}
