package parsers

// defaultParser covers flake8's default output and anything else using the
// common unix format:
//
//	docs/conf.py:230:1: E265 block comment should start with '# '
var defaultParser = NewLineRegexParser(
	`^(?P<path>.*):(?P<line>\d+):(?P<column>\d+): (?P<code>\w\d+) (?P<message>.*)$`)

func init() {
	registry["unix"] = defaultParser
	registry["flake8"] = defaultParser

	registry["pylint-json"] = PylintJSONParser{}

	registry["eslint"] = ESLintParser{}

	// ESLint's unix formatter:
	// lintly/static/js/scripts.js:69:1: 'lintly' is not defined. [Error/no-undef]
	registry["eslint-unix"] = NewLineRegexParser(
		`^(?P<path>.*):(?P<line>\d+):(?P<column>\d+): (?P<message>.+) \[(Warning|Error)/(?P<code>.+)\]$`)

	registry["stylelint"] = StylelintParser{}
	registry["black"] = BlackParser{}
	registry["cfn-lint"] = CfnLintParser{}
	registry["cfn-nag"] = CfnNagParser{}
	registry["bandit-json"] = BanditJSONParser{}
	registry["gitleaks"] = GitLeaksParser{}
	registry["hadolint"] = HadolintParser{}
}
