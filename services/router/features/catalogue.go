// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package features

// Keyword catalogues backing the keyword-ratio features. Each ratio is
// the number of catalogue entries found in the query divided by the
// catalogue size, so two queries hitting the same fraction of a
// catalogue score equally regardless of query length.
//
// The catalogues are fixed: the algorithmic scorer must be reproducible
// bit-for-bit across process restarts, and trained models bake the
// resulting feature values into their weights. Changing a catalogue
// invalidates every persisted model version.

// ReasoningKeywords signal multi-step reasoning demands.
var ReasoningKeywords = []string{
	"why", "explain", "compare", "analyze", "evaluate", "justify",
	"reason", "rationale", "because", "therefore", "conclusion",
}

// SystemDesignKeywords signal architecture and infrastructure questions.
var SystemDesignKeywords = []string{
	"architecture", "scalable", "api", "pipeline", "microservice",
	"distributed", "database", "cache", "load", "performance",
	"optimization", "design pattern", "system design",
}

// CodeIndicators signal programming questions.
var CodeIndicators = []string{
	"class", "def", "import", "function", "variable", "array",
	"object", "method", "syntax", "code", "programming", "algorithm",
}

// questionWords are the interrogatives counted by the question-word
// feature. Matched as substrings of the lowercased query.
var questionWords = []string{"what", "why", "how", "when", "where", "which", "who"}

// coordinatingConjunctions is the closed class of coordinating
// conjunctions (Penn tag CC) used by the POS-complexity feature.
var coordinatingConjunctions = map[string]struct{}{
	"and": {}, "but": {}, "or": {}, "nor": {}, "yet": {}, "so": {},
	"either": {}, "neither": {}, "plus": {},
}

// prepositions is the closed class of prepositions and subordinating
// conjunctions (Penn tag IN).
var prepositions = map[string]struct{}{
	"about": {}, "above": {}, "across": {}, "after": {}, "against": {},
	"along": {}, "among": {}, "around": {}, "as": {}, "at": {},
	"before": {}, "behind": {}, "below": {}, "beneath": {}, "beside": {},
	"between": {}, "beyond": {}, "by": {}, "despite": {}, "down": {},
	"during": {}, "except": {}, "for": {}, "from": {}, "in": {},
	"inside": {}, "into": {}, "like": {}, "near": {}, "of": {},
	"off": {}, "on": {}, "onto": {}, "out": {}, "outside": {},
	"over": {}, "past": {}, "since": {}, "through": {}, "throughout": {},
	"till": {}, "to": {}, "toward": {}, "towards": {}, "under": {},
	"underneath": {}, "until": {}, "up": {}, "upon": {}, "with": {},
	"within": {}, "without": {}, "because": {}, "although": {},
	"though": {}, "while": {}, "whereas": {}, "if": {}, "unless": {},
	"whether": {},
}

// commonVerbs is a lexicon of frequent English verb forms used by the
// heuristic verb detector. Open-class, so necessarily incomplete; the
// suffix rules in pos.go catch inflected forms the lexicon misses.
var commonVerbs = map[string]struct{}{
	// be / have / do and modals
	"be": {}, "is": {}, "are": {}, "am": {}, "was": {}, "were": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"having": {}, "do": {}, "does": {}, "did": {}, "done": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "shall": {},
	"should": {}, "may": {}, "might": {}, "must": {},
	// frequent lexical verbs
	"make": {}, "get": {}, "go": {}, "know": {}, "think": {},
	"take": {}, "see": {}, "come": {}, "want": {}, "use": {},
	"find": {}, "give": {}, "tell": {}, "work": {}, "call": {},
	"try": {}, "ask": {}, "need": {}, "feel": {}, "become": {},
	"leave": {}, "put": {}, "mean": {}, "keep": {}, "let": {},
	"begin": {}, "seem": {}, "help": {}, "show": {}, "hear": {},
	"run": {}, "move": {}, "believe": {}, "bring": {}, "happen": {},
	"write": {}, "provide": {}, "set": {}, "learn": {}, "change": {},
	"lead": {}, "understand": {}, "follow": {}, "stop": {},
	"create": {}, "read": {}, "build": {}, "break": {}, "describe": {},
	"add": {}, "remove": {}, "return": {}, "print": {}, "sort": {},
	"implement": {}, "design": {}, "deploy": {}, "scale": {},
	"compare": {}, "analyze": {}, "evaluate": {}, "explain": {},
	"optimize": {}, "debug": {}, "test": {}, "fix": {}, "solve": {},
}
