package skills

// Technical skill vocabulary, grouped by category. A skill listed in more
// than one category is matched once.
var technicalCategories = map[string][]string{
	"languages": {
		"python", "java", "javascript", "typescript", "c++", "c#", "c", "ruby", "go", "golang",
		"rust", "php", "swift", "kotlin", "scala", "r", "matlab", "perl", "shell", "bash",
		"powershell", "objective-c", "dart", "elixir", "haskell", "lua", "groovy", "vb.net",
		"julia", "fortran", "cobol", "assembly", "sql", "plsql", "t-sql", "nosql",
	},
	"web_frameworks": {
		"react", "angular", "vue", "vue.js", "svelte", "next.js", "nuxt.js", "gatsby",
		"django", "flask", "fastapi", "express", "express.js", "nest.js", "koa",
		"spring", "spring boot", "asp.net", ".net core", "laravel", "symfony", "rails",
		"ruby on rails", "node.js", "nodejs", "jquery", "backbone.js", "ember.js",
		"meteor", "webpack", "vite", "parcel", "rollup", "babel",
	},
	"databases": {
		"mysql", "postgresql", "postgres", "mongodb", "redis", "cassandra", "dynamodb",
		"oracle", "mssql", "sql server", "sqlite", "mariadb", "couchdb", "neo4j",
		"elasticsearch", "firestore", "firebase", "realm", "influxdb", "timescaledb",
		"cockroachdb", "aurora", "documentdb", "cosmosdb",
	},
	"cloud": {
		"aws", "amazon web services", "azure", "microsoft azure", "gcp", "google cloud",
		"docker", "kubernetes", "k8s", "helm", "terraform", "ansible", "puppet", "chef",
		"jenkins", "gitlab ci", "github actions", "circleci", "travis ci", "bitbucket pipelines",
		"ci/cd", "ec2", "s3", "lambda", "ecs", "eks", "cloudformation", "cloudwatch",
		"iam", "vpc", "rds", "api gateway", "cloudfront", "route53", "azure devops",
		"heroku", "netlify", "vercel", "digital ocean", "linode", "openshift",
	},
	"ai_ml": {
		"machine learning", "deep learning", "neural networks", "nlp", "natural language processing",
		"computer vision", "tensorflow", "pytorch", "keras", "scikit-learn", "pandas",
		"numpy", "scipy", "jupyter", "matplotlib", "seaborn", "opencv", "hugging face",
		"transformers", "bert", "gpt", "llama", "stable diffusion", "data science",
		"data analysis", "statistics", "spark", "pyspark", "hadoop", "airflow",
		"mlflow", "kubeflow", "sagemaker", "vertex ai", "azure ml",
	},
	"mobile": {
		"ios", "android", "react native", "flutter", "xamarin", "ionic", "cordova",
		"swift", "swiftui", "objective-c", "kotlin", "jetpack compose", "xcode",
	},
	"testing": {
		"jest", "mocha", "chai", "jasmine", "pytest", "unittest", "selenium", "cypress",
		"playwright", "puppeteer", "junit", "testng", "cucumber", "postman", "jmeter",
		"k6", "locust", "unit testing", "integration testing", "e2e testing", "tdd",
		"bdd", "test automation",
	},
	"tools": {
		"git", "github", "gitlab", "bitbucket", "svn", "vscode", "visual studio",
		"intellij", "pycharm", "eclipse", "vim", "emacs", "sublime text", "atom",
		"jira", "confluence", "slack", "teams", "notion", "trello", "asana",
	},
	"apis": {
		"rest api", "restful", "graphql", "grpc", "soap", "websocket", "http", "https",
		"oauth", "jwt", "api design", "openapi", "swagger", "postman",
	},
	"methodologies": {
		"agile", "scrum", "kanban", "waterfall", "devops", "ci/cd", "microservices",
		"monolith", "serverless", "event-driven", "domain-driven design", "ddd",
		"solid", "design patterns", "clean code", "clean architecture",
	},
	"other": {
		"linux", "unix", "windows", "macos", "nginx", "apache", "rabbitmq", "kafka",
		"celery", "redis queue", "message queue", "webscraping", "beautiful soup",
		"scrapy", "regex", "json", "xml", "yaml", "html", "css", "sass", "scss",
		"tailwind", "bootstrap", "material ui", "chakra ui", "security", "encryption",
		"blockchain", "web3", "ethereum", "solidity", "smart contracts",
	},
}

var softSkills = []string{
	"leadership", "communication", "teamwork", "problem solving", "analytical",
	"critical thinking", "creativity", "collaboration", "time management",
	"project management", "mentoring", "coaching", "public speaking", "presentation",
	"negotiation", "conflict resolution", "adaptability", "flexibility", "initiative",
	"self-motivated", "detail-oriented", "organized", "multitasking", "prioritization",
}

// Certification and degree patterns. Each is anchored with word boundaries
// and matched against lowercased text.
var certificationPatterns = []string{
	`aws certified`, `azure certified`, `google cloud certified`, `gcp certified`,
	`certified kubernetes`, `ckad?`, `pmp`, `cissp`, `comptia`, `ccna`, `ccnp`,
	`ceh`, `oscp`, `cisa`, `cism`, `itil`, `prince2`, `csm`, `safe`,
	`bachelor`, `master`, `mba`, `phd`, `b\.?s\.?`, `m\.?s\.?`, `b\.?tech`,
	`m\.?tech`, `b\.?e\.?`, `m\.?e\.?`,
}

// Years-of-experience patterns, tried in order. The first capture group is
// the number of years.
var yearsPatterns = []string{
	`(\d+)\+?\s*years?\s+(?:of\s+)?experience`,
	`experience[:\s]+(\d+)\+?\s*years?`,
	`(\d+)\+?\s*yrs?\s+(?:of\s+)?experience`,
}

// TechnicalSkills returns the flattened, deduplicated technical vocabulary.
func TechnicalSkills() []string {
	seen := make(map[string]struct{})
	all := make([]string, 0, 320)
	for _, category := range categoryOrder {
		for _, skill := range technicalCategories[category] {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			all = append(all, skill)
		}
	}
	return all
}

// SoftSkills returns a copy of the soft-skill vocabulary.
func SoftSkills() []string {
	return append([]string(nil), softSkills...)
}

var categoryOrder = []string{
	"languages", "web_frameworks", "databases", "cloud", "ai_ml", "mobile",
	"testing", "tools", "apis", "methodologies", "other",
}
