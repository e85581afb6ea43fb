// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package examplestore

import (
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Curated Seed Catalog
// =============================================================================

type seedEntry struct {
	Task        datatypes.TaskType
	Proficiency datatypes.Proficiency
	Example     datatypes.Example
}

// seedCatalog is the curated worked-example set loaded by
// NewStoreWithDefaults. Every (TaskType, Proficiency) bucket has at least
// one entry, so proficiency fallback is never needed for the defaults.
// Expected outputs are complete JSON objects matching each task's schema
// contract; few-shot blocks quote them verbatim.
var seedCatalog = []seedEntry{
	// -------------------------------------------------------------------------
	// Debate
	// -------------------------------------------------------------------------
	{
		Task:        datatypes.TaskDebate,
		Proficiency: datatypes.ProficiencyBeginner,
		Example: datatypes.Example{
			Query:          "Should the President of India have more power than the Prime Minister?",
			ExpectedOutput: `{"stance":"The President should remain a largely ceremonial head because daily governance needs an accountable leader answerable to the Lok Sabha.","counterStance":"A stronger President could act as a neutral check when a ruling party dominates Parliament.","citations":["Article 74: the President acts on the aid and advice of the Council of Ministers","Article 75: the Council of Ministers is collectively responsible to the Lok Sabha"],"quiz":[{"question":"Who advises the President in most decisions?","answer":"The Council of Ministers headed by the Prime Minister."}]}`,
		},
	},
	{
		Task:        datatypes.TaskDebate,
		Proficiency: datatypes.ProficiencyBeginner,
		Example: datatypes.Example{
			Query:          "Should voting be compulsory in India?",
			ExpectedOutput: `{"stance":"Compulsory voting would strengthen democratic legitimacy by ensuring every eligible citizen participates.","counterStance":"The freedom to vote includes the freedom not to vote, and enforcement would burden the poorest voters most.","citations":["Article 326: elections by universal adult suffrage","Representation of the People Act, 1951"],"quiz":[{"question":"Which article establishes universal adult suffrage?","answer":"Article 326."}]}`,
		},
	},
	{
		Task:        datatypes.TaskDebate,
		Proficiency: datatypes.ProficiencyIntermediate,
		Example: datatypes.Example{
			Query:          "Should the basic structure doctrine limit Parliament's power to amend the Constitution?",
			ExpectedOutput: `{"stance":"The basic structure doctrine is a necessary judicial safeguard: without it, a transient majority could amend away democracy itself, as the 42nd Amendment attempted.","counterStance":"An unelected judiciary deciding which amendments survive inverts popular sovereignty; Article 368 places amendment with Parliament, not the courts.","citations":["Kesavananda Bharati v. State of Kerala (1973)","Article 368","Minerva Mills v. Union of India (1980)"],"quiz":[{"question":"Which 1973 case established the basic structure doctrine?","answer":"Kesavananda Bharati v. State of Kerala."},{"question":"Which article governs constitutional amendment?","answer":"Article 368."}]}`,
		},
	},
	{
		Task:        datatypes.TaskDebate,
		Proficiency: datatypes.ProficiencyIntermediate,
		Example: datatypes.Example{
			Query:          "Is a uniform civil code desirable for India?",
			ExpectedOutput: `{"stance":"A uniform civil code would fulfil Article 44's directive and place all citizens under one secular family law, advancing equality before the law.","counterStance":"Personal law diversity is itself an expression of religious freedom under Articles 25-26, and uniformity imposed without consensus risks alienating minorities.","citations":["Article 44 (Directive Principles)","Articles 25-26 (freedom of religion)","Shah Bano case (1985)"],"quiz":[{"question":"Which directive principle mentions a uniform civil code?","answer":"Article 44."}]}`,
		},
	},
	{
		Task:        datatypes.TaskDebate,
		Proficiency: datatypes.ProficiencyAdvanced,
		Example: datatypes.Example{
			Query:          "Does judicial review of constitutional amendments undermine parliamentary sovereignty in India?",
			ExpectedOutput: `{"stance":"India never adopted Westminster-style parliamentary sovereignty; the Constitution is supreme, and judicial review under Articles 13, 32, and 226 is the designed enforcement mechanism, extended to amendments once Kesavananda recognized implied limitations on Article 368.","counterStance":"The amending power is constituent, not legislative; conflating the two lets the judiciary entrench its own reading of 'basic structure', an open-textured standard with no textual anchor, shifting ultimate constituent authority from the people's representatives to the bench.","citations":["Kesavananda Bharati v. State of Kerala (1973)","I.R. Coelho v. State of Tamil Nadu (2007)","Article 13(2)","Article 368(3)"],"quiz":[{"question":"Which case extended basic structure review to Ninth Schedule laws?","answer":"I.R. Coelho v. State of Tamil Nadu (2007)."},{"question":"What distinguishes constituent power from ordinary legislative power?","answer":"Constituent power amends the Constitution itself under Article 368; legislative power operates within it."}]}`,
		},
	},
	// -------------------------------------------------------------------------
	// Analysis
	// -------------------------------------------------------------------------
	{
		Task:        datatypes.TaskAnalysis,
		Proficiency: datatypes.ProficiencyBeginner,
		Example: datatypes.Example{
			Query:          "What does the Preamble tell us about the Constitution?",
			ExpectedOutput: `{"thesis":"The Preamble is a short statement of the Constitution's goals: justice, liberty, equality, and fraternity for all citizens.","keyPoints":["It declares India sovereign, socialist, secular, and democratic","It names the people as the source of the Constitution's authority","Courts use it to understand the spirit of other provisions"],"implications":["Laws are read in light of these goals","The words socialist and secular were added by the 42nd Amendment"],"citations":["Preamble to the Constitution of India","42nd Amendment (1976)"]}`,
		},
	},
	{
		Task:        datatypes.TaskAnalysis,
		Proficiency: datatypes.ProficiencyIntermediate,
		Example: datatypes.Example{
			Query:          "Analyze the relationship between fundamental rights and directive principles.",
			ExpectedOutput: `{"thesis":"Fundamental rights and directive principles are complementary halves of one social design: enforceable individual guarantees and unenforceable state obligations that guide legislation.","keyPoints":["Part III rights are justiciable under Article 32; Part IV principles are expressly non-justiciable under Article 37","Early cases privileged rights; Kesavananda and Minerva Mills settled on harmony rather than hierarchy","Several principles have been read into rights, such as Article 21A on education"],"implications":["Courts balance the two rather than letting either eclipse the other","Directive principles legitimize welfare legislation that limits property and trade rights"],"citations":["Article 37","Minerva Mills v. Union of India (1980)","Unni Krishnan v. State of A.P. (1993)"]}`,
		},
	},
	{
		Task:        datatypes.TaskAnalysis,
		Proficiency: datatypes.ProficiencyAdvanced,
		Example: datatypes.Example{
			Query:          "Analyze the evolution of the right to privacy in Indian constitutional jurisprudence.",
			ExpectedOutput: `{"thesis":"Privacy evolved from explicit rejection in M.P. Sharma and Kharak Singh, through incremental recognition in surveillance and telephone-tapping cases, to unanimous affirmation as intrinsic to Article 21 in Puttaswamy, recasting the state-citizen information relationship.","keyPoints":["M.P. Sharma (1954) and Kharak Singh (1962) denied a general privacy right under a narrow reading of personal liberty","Gobind (1975) and PUCL (1997) built a case-by-case privacy doctrine around reasonable restrictions","Puttaswamy (2017) overruled the early cases, grounding privacy in dignity and autonomy across Articles 14, 19, and 21","The proportionality standard from Puttaswamy now governs data protection and surveillance review"],"implications":["Aadhaar-style programs face structured proportionality scrutiny","Informational privacy claims now have a constitutional anchor independent of statute"],"citations":["Justice K.S. Puttaswamy v. Union of India (2017)","Kharak Singh v. State of U.P. (1962)","Gobind v. State of M.P. (1975)","PUCL v. Union of India (1997)"]}`,
		},
	},
	// -------------------------------------------------------------------------
	// Comparison
	// -------------------------------------------------------------------------
	{
		Task:        datatypes.TaskComparison,
		Proficiency: datatypes.ProficiencyBeginner,
		Example: datatypes.Example{
			Query:          "Compare the Lok Sabha and the Rajya Sabha.",
			ExpectedOutput: `{"similarities":["Both are houses of Parliament","Both must pass ordinary bills","Members of both can become ministers"],"differences":["Lok Sabha members are directly elected; Rajya Sabha members are elected by state legislatures","The Lok Sabha can be dissolved; the Rajya Sabha is permanent with a third retiring every two years","Money bills can only be introduced in the Lok Sabha"],"verdict":"The Lok Sabha holds the decisive power over government and money, while the Rajya Sabha works as a revising chamber representing the states.","citations":["Article 79","Article 109","Article 83"]}`,
		},
	},
	{
		Task:        datatypes.TaskComparison,
		Proficiency: datatypes.ProficiencyIntermediate,
		Example: datatypes.Example{
			Query:          "Compare the amendment procedures of the Indian and United States constitutions.",
			ExpectedOutput: `{"similarities":["Both require supermajorities for constitutional change","Both involve the states for provisions touching the federal structure","Both place the procedure in a single article"],"differences":["India offers three routes under Article 368, including simple-majority changes for some provisions; the US offers only the Article V supermajority paths","US amendments need ratification by three-fourths of states; India needs half the states, and only for federal provisions","India's judiciary reviews amendments on basic structure grounds; US courts treat ratified amendments as unreviewable"],"verdict":"India's procedure is deliberately more flexible, which is why judicial limits like basic structure emerged there and not in the American system.","citations":["Article 368","Article V, US Constitution","Kesavananda Bharati v. State of Kerala (1973)"]}`,
		},
	},
	{
		Task:        datatypes.TaskComparison,
		Proficiency: datatypes.ProficiencyAdvanced,
		Example: datatypes.Example{
			Query:          "Compare judicial review in India and the United States as instruments of constitutional supremacy.",
			ExpectedOutput: `{"similarities":["Both trace review to constitutional supremacy rather than express text, Marbury for the US and Articles 13/32 read together for India","Both apply tiered scrutiny calibrated to the right at stake","Both treat some questions as non-justiciable political questions"],"differences":["Indian review extends to constitutional amendments via basic structure; American review stops at ratified amendments","India's Article 32 makes the Supreme Court a court of first instance for rights, unlike the US appellate posture","Indian courts entertain public interest litigation with relaxed standing; US Article III standing is comparatively strict"],"verdict":"Indian judicial review is structurally broader and more accessible, trading the US model's restraint for an explicitly guardian-style judiciary.","citations":["Marbury v. Madison (1803)","Article 32","I.R. Coelho v. State of Tamil Nadu (2007)","S.P. Gupta v. Union of India (1981)"]}`,
		},
	},
	// -------------------------------------------------------------------------
	// Explanation
	// -------------------------------------------------------------------------
	{
		Task:        datatypes.TaskExplanation,
		Proficiency: datatypes.ProficiencyBeginner,
		Example: datatypes.Example{
			Query:          "What is a fundamental right?",
			ExpectedOutput: `{"summary":"A fundamental right is a basic freedom the Constitution guarantees to every person, which the government cannot take away unfairly.","details":["They are listed in Part III of the Constitution","Examples include equality before law, freedom of speech, and protection of life and liberty","If a right is violated, you can go directly to the Supreme Court under Article 32"],"analogy":"Fundamental rights are like the rules of a board game that even the person who owns the board must follow.","citations":["Part III, Constitution of India","Article 32"]}`,
		},
	},
	{
		Task:        datatypes.TaskExplanation,
		Proficiency: datatypes.ProficiencyIntermediate,
		Example: datatypes.Example{
			Query:          "Explain the doctrine of separation of powers in the Indian context.",
			ExpectedOutput: `{"summary":"Separation of powers distributes state authority among the legislature, executive, and judiciary so no organ can dominate, though India follows a functional rather than rigid separation.","details":["Parliament legislates, the executive implements, and courts interpret, but the executive sits within the legislature","Judicial review polices the boundaries between organs","Kesavananda treats separation of powers as part of the basic structure"],"analogy":"It works like three branches of a relay team: each runs its own leg, and the race fails if one runner tries to run all three.","citations":["Article 50","Kesavananda Bharati v. State of Kerala (1973)","Indira Nehru Gandhi v. Raj Narain (1975)"]}`,
		},
	},
	{
		Task:        datatypes.TaskExplanation,
		Proficiency: datatypes.ProficiencyAdvanced,
		Example: datatypes.Example{
			Query:          "Explain the doctrine of colourable legislation and its place in federal distribution of powers.",
			ExpectedOutput: `{"summary":"Colourable legislation is the doctrine that a legislature cannot do indirectly what it is barred from doing directly: when a law's substance falls outside the enacting body's competence, its form cannot save it.","details":["The inquiry goes to legislative competence under the Seventh Schedule lists, not to motive","Courts examine the law's pith and substance to find its true character","K.C. Gajapati Narayan Deo upheld agrarian reform taxation against a colourability challenge, marking the doctrine's limits","The doctrine is inapplicable where competence is plenary"],"analogy":"A legislature painting a trespass in its own colours does not acquire the neighbour's land: the boundary, not the paint, decides ownership.","citations":["K.C. Gajapati Narayan Deo v. State of Orissa (1953)","Seventh Schedule, Constitution of India","State of Bihar v. Kameshwar Singh (1952)"]}`,
		},
	},
	// -------------------------------------------------------------------------
	// Quiz
	// -------------------------------------------------------------------------
	{
		Task:        datatypes.TaskQuiz,
		Proficiency: datatypes.ProficiencyBeginner,
		Example: datatypes.Example{
			Query:          "Make a short quiz about the Indian Parliament.",
			ExpectedOutput: `{"questions":[{"question":"How many houses does the Indian Parliament have?","options":["One","Two","Three"],"answer":"Two"},{"question":"Who is the nominal head of Parliament?","options":["The Prime Minister","The President","The Speaker"],"answer":"The President"},{"question":"Which house is called the House of the People?","options":["Lok Sabha","Rajya Sabha"],"answer":"Lok Sabha"}]}`,
		},
	},
	{
		Task:        datatypes.TaskQuiz,
		Proficiency: datatypes.ProficiencyIntermediate,
		Example: datatypes.Example{
			Query:          "Create a quiz on constitutional amendments.",
			ExpectedOutput: `{"questions":[{"question":"Which article lays down the amendment procedure?","options":["Article 356","Article 368","Article 370"],"answer":"Article 368"},{"question":"Which amendment is known as the mini-Constitution?","options":["42nd","44th","73rd"],"answer":"42nd"},{"question":"Ratification by how many state legislatures is needed for federal provisions?","options":["All states","Half the states","Two-thirds of states"],"answer":"Half the states"}]}`,
		},
	},
	{
		Task:        datatypes.TaskQuiz,
		Proficiency: datatypes.ProficiencyAdvanced,
		Example: datatypes.Example{
			Query:          "Quiz me on landmark basic structure cases.",
			ExpectedOutput: `{"questions":[{"question":"In which case did the Supreme Court first articulate the basic structure doctrine?","options":["Golak Nath (1967)","Kesavananda Bharati (1973)","Minerva Mills (1980)"],"answer":"Kesavananda Bharati (1973)"},{"question":"Which case struck down clauses of Article 368 inserted by the 42nd Amendment?","options":["Minerva Mills (1980)","Waman Rao (1981)","I.R. Coelho (2007)"],"answer":"Minerva Mills (1980)"},{"question":"What standard did I.R. Coelho apply to Ninth Schedule laws enacted after Kesavananda?","options":["Rational basis review","Basic structure review","No review"],"answer":"Basic structure review"}]}`,
		},
	},
}
