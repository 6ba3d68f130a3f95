package project

// signature is a substring probe applied to a manifest's content. Matches are
// plain substrings, not patterns; manifests are read capped so probing stays
// cheap during a full workspace scan.
type signature struct {
	match     string
	framework string
}

// stackRule ties a root-level manifest file to the language it indicates and
// the framework signatures worth probing inside it.
type stackRule struct {
	language   string
	signatures []signature
}

// stackRules keys detection off manifest filenames. Only files that appear at
// a project root are listed; DetectStack never walks subdirectories.
var stackRules = map[string]stackRule{
	"go.mod": {language: "go", signatures: []signature{
		{"github.com/go-chi", "chi"},
		{"github.com/gin-gonic/gin", "gin"},
		{"github.com/labstack/echo", "echo"},
		{"github.com/gofiber/fiber", "fiber"},
	}},
	"go.sum": {language: "go"},
	"package.json": {language: "javascript", signatures: []signature{
		{`"react"`, "react"},
		{`"vue"`, "vue"},
		{`"svelte"`, "svelte"},
		{`"solid-js"`, "solidjs"},
		{`"next"`, "next"},
		{`"nuxt"`, "nuxt"},
		{`"express"`, "express"},
		{`"@nestjs/core"`, "nestjs"},
		{`"@angular/core"`, "angular"},
	}},
	"tsconfig.json": {language: "typescript"},
	"pyproject.toml": {language: "python", signatures: []signature{
		{"django", "django"},
		{"flask", "flask"},
		{"fastapi", "fastapi"},
	}},
	"requirements.txt": {language: "python", signatures: []signature{
		{"django", "django"},
		{"flask", "flask"},
		{"fastapi", "fastapi"},
	}},
	"setup.py": {language: "python"},
	"Pipfile":  {language: "python"},
	"Cargo.toml": {language: "rust", signatures: []signature{
		{"actix-web", "actix"},
		{"axum", "axum"},
		{"rocket", "rocket"},
	}},
	"pom.xml": {language: "java", signatures: []signature{
		{"spring-boot", "spring-boot"},
	}},
	"build.gradle": {language: "java", signatures: []signature{
		{"spring-boot", "spring-boot"},
	}},
	"build.gradle.kts": {language: "kotlin", signatures: []signature{
		{"spring-boot", "spring-boot"},
		{"ktor", "ktor"},
	}},
	"Gemfile": {language: "ruby", signatures: []signature{
		{"rails", "rails"},
		{"sinatra", "sinatra"},
	}},
	"composer.json": {language: "php", signatures: []signature{
		{"laravel", "laravel"},
		{"symfony", "symfony"},
	}},
	"mix.exs":        {language: "elixir"},
	"Package.swift":  {language: "swift"},
	"pubspec.yaml":   {language: "dart"},
	"Makefile":       {language: "make"},
	"CMakeLists.txt": {language: "cpp"},
	"Dockerfile":     {language: "docker"},
}
