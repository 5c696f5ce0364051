package lexicon

var defaultNamePatterns = []string{
	`^[A-Z][a-z]+(?:[-'][A-Z][a-z]+)?(?:\s+[A-Z]\.?)?\s+[A-Z](?:[a-z]+|[a-z]*[-'][A-Z]?[a-z]+)$`,
	`^[A-Z][a-z]+\s+[A-Z][a-z]+\s+[A-Z][a-z]+(?:[-'][A-Z][a-z]+)?$`,
	`^[A-Z]{2,}(?:\s+[A-Z]\.?)?\s+[A-Z]{2,}(?:[-'][A-Z]{2,})?$`,
	`^[A-Z][a-z]+\s+(?:van|von|de|da|del|der|di|le|la)\s+[A-Z][a-z]+$`,
}

var defaultFirstNames = []string{
	"james", "john", "robert", "michael", "william", "david", "richard", "joseph", "thomas", "charles",
	"christopher", "daniel", "matthew", "anthony", "mark", "donald", "steven", "paul", "andrew", "joshua",
	"kevin", "brian", "george", "timothy", "ronald", "edward", "jason", "jeffrey", "ryan", "jacob",
	"gary", "nicholas", "eric", "jonathan", "stephen", "larry", "justin", "scott", "brandon", "benjamin",
	"samuel", "gregory", "alexander", "frank", "patrick", "raymond", "jack", "dennis", "jerry", "tyler",
	"aaron", "jose", "adam", "nathan", "henry", "peter", "zachary", "kyle", "noah", "ethan",
	"mary", "patricia", "jennifer", "linda", "elizabeth", "barbara", "susan", "jessica", "sarah", "karen",
	"lisa", "nancy", "betty", "margaret", "sandra", "ashley", "kimberly", "emily", "donna", "michelle",
	"carol", "amanda", "dorothy", "melissa", "deborah", "stephanie", "rebecca", "sharon", "laura", "cynthia",
	"kathleen", "amy", "angela", "shirley", "anna", "brenda", "pamela", "emma", "nicole", "helen",
	"samantha", "katherine", "christine", "rachel", "carolyn", "janet", "maria", "olivia", "sophia", "julia",
	"jane", "alice", "grace", "hannah", "chloe", "lucy", "sofia", "isabella", "mia", "ava",
	"ahmed", "mohamed", "muhammad", "ali", "omar", "fatima", "aisha", "wei", "li", "chen",
	"raj", "priya", "amit", "arjun", "rahul", "anil", "sanjay", "deepak", "pierre", "jean",
	"luca", "marco", "giulia", "hans", "lukas", "anna", "ivan", "olga", "dmitri", "yuki",
	"hiroshi", "kenji", "carlos", "juan", "luis", "miguel", "ana", "lucia", "pablo", "diego",
}

var defaultLanguages = []string{
	"English", "Spanish", "French", "German", "Italian", "Portuguese", "Dutch", "Russian",
	"Chinese", "Mandarin", "Cantonese", "Japanese", "Korean", "Arabic", "Hindi", "Bengali",
	"Urdu", "Turkish", "Polish", "Ukrainian", "Swedish", "Norwegian", "Danish", "Finnish",
	"Greek", "Hebrew", "Persian", "Farsi", "Vietnamese", "Thai", "Indonesian", "Malay",
	"Tagalog", "Swahili", "Czech", "Hungarian", "Romanian", "Bulgarian", "Serbian", "Croatian",
}

var defaultJobTitleKeywords = []string{
	"engineer", "developer", "programmer", "architect", "manager", "director", "analyst",
	"consultant", "designer", "administrator", "specialist", "coordinator", "lead", "head of",
	"officer", "assistant", "associate", "intern", "scientist", "researcher", "technician",
	"accountant", "supervisor", "executive", "president", "vice president", "vp", "cto", "ceo",
	"cfo", "coo", "founder", "co-founder", "owner", "representative", "advisor", "strategist",
	"teacher", "instructor", "professor", "lecturer", "nurse", "physician", "editor", "writer",
	"product owner", "scrum master", "devops", "sre", "tester", "qa", "recruiter", "marketer",
	"operator", "trainee", "fellow", "contractor", "freelancer", "principal",
}

var defaultDegreeKeywords = []string{
	"bachelor", "bachelors", "bachelor's", "master", "masters", "master's", "doctor", "doctorate",
	"phd", "ph.d.", "ph.d", "mba", "msc", "m.sc.", "bsc", "b.sc.", "b.s.", "b.a.", "m.s.", "m.a.",
	"b.eng", "m.eng", "beng", "meng", "associate degree", "associate's",
	"diploma", "degree", "high school diploma", "ged", "certificate in", "postgraduate",
	"undergraduate", "graduate", "a-levels", "baccalaureate", "licence", "licentiate",
}

var defaultInstitutionKeywords = []string{
	"university", "college", "institute", "institute of technology", "school", "academy",
	"polytechnic", "conservatory", "seminary", "universidad", "universität", "université",
	"high school", "community college", "bootcamp",
}

var defaultCompanySuffixes = []string{
	"inc", "inc.", "llc", "l.l.c.", "ltd", "ltd.", "limited", "corp", "corp.", "corporation",
	"co.", "company", "gmbh", "s.a.", "plc", "pty", "b.v.",
	"technologies", "labs", "holdings", "agency", "enterprises", "industries",
}

var defaultProfessionalKeywords = []string{
	"experienced", "experience", "professional", "years", "passionate", "skilled", "expertise",
	"specializing", "specialized", "proven", "track record", "results-driven", "dedicated",
	"motivated", "background in", "seeking", "focused", "accomplished", "adept", "proficient",
	"leadership", "delivering", "driven", "committed", "innovative", "detail-oriented",
}

var defaultPlaceholders = []string{
	"sample text", "use this section", "lorem ipsum", "your name", "your email", "your phone",
	"your address", "click here to", "type here", "replace this text", "[your", "insert your",
	"add your", "enter your",
}

var defaultCountries = []string{
	"United States", "USA", "United Kingdom", "UK", "Canada", "Australia", "New Zealand", "Ireland",
	"Germany", "France", "Spain", "Italy", "Portugal", "Netherlands", "Belgium", "Switzerland",
	"Austria", "Sweden", "Norway", "Denmark", "Finland", "Poland", "Czech Republic", "Hungary",
	"Romania", "Greece", "Turkey", "Russia", "Ukraine", "Israel", "Egypt", "Nigeria", "Kenya",
	"South Africa", "Morocco", "India", "Pakistan", "Bangladesh", "China", "Japan", "South Korea",
	"Singapore", "Malaysia", "Indonesia", "Philippines", "Vietnam", "Thailand", "Brazil",
	"Argentina", "Mexico", "Chile", "Colombia", "Peru", "United Arab Emirates", "UAE", "Saudi Arabia",
}

// defaultFieldAliases maps, per canonical section, alternate field names an
// external structurer may emit onto the canonical JSON field name.
var defaultFieldAliases = map[string]map[string]string{
	"contact": {
		"first_name": "firstName", "given_name": "firstName", "forename": "firstName",
		"last_name": "lastName", "surname": "lastName", "family_name": "lastName",
		"title": "desiredJobTitle", "job_title": "desiredJobTitle", "headline": "desiredJobTitle",
		"desired_title": "desiredJobTitle", "position": "desiredJobTitle",
		"phone_number": "phone", "mobile": "phone", "telephone": "phone", "tel": "phone", "cell": "phone",
		"mail": "email", "email_address": "email", "e_mail": "email",
		"zip": "postCode", "zip_code": "postCode", "postal_code": "postCode", "postcode": "postCode",
		"street": "address", "street_address": "address", "address_line": "address",
		"town": "city", "nation": "country",
	},
	"experiences": {
		"title": "jobTitle", "position": "jobTitle", "role": "jobTitle", "job_title": "jobTitle", "job": "jobTitle",
		"employer": "company", "organization": "company", "organisation": "company", "company_name": "company",
		"start": "startDate", "start_date": "startDate", "from": "startDate", "begin": "startDate",
		"end": "endDate", "end_date": "endDate", "to": "endDate", "until": "endDate",
		"summary": "description", "details": "description", "responsibilities": "description",
		"highlights": "description", "achievements": "description",
		"city": "location", "place": "location",
	},
	"education": {
		"institution": "school", "university": "school", "college": "school", "school_name": "school",
		"qualification": "degree", "degree_name": "degree", "program": "degree", "title": "degree",
		"start": "startDate", "start_date": "startDate", "from": "startDate",
		"end": "endDate", "end_date": "endDate", "to": "endDate", "graduation_date": "endDate",
		"details": "description", "summary": "description", "notes": "description",
		"city": "location", "place": "location",
	},
	"skills": {
		"skill": "name", "title": "name", "skill_name": "name",
		"proficiency": "level", "rating": "level", "expertise": "level",
	},
	"languages": {
		"language": "name", "lang": "name",
		"level": "proficiency", "fluency": "proficiency",
	},
	"certifications": {
		"name": "title", "certification": "title", "certificate": "title",
	},
	"awards": {
		"name": "title", "award": "title", "honor": "title",
	},
	"websites": {
		"name": "label", "type": "label", "platform": "label", "network": "label",
		"link": "url", "href": "url", "website": "url", "address": "url",
	},
	"references": {
		"full_name": "name", "referee": "name",
		"title": "relationship", "position": "relationship", "relation": "relationship",
		"contact": "contactInfo", "contact_info": "contactInfo", "email": "contactInfo", "phone": "contactInfo",
	},
}
