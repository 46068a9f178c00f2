package catalog

func labels(fr, mg, en string) map[string]string {
	return map[string]string{"fr": fr, "mg": mg, "en": en}
}

var builtin = []Pictogram{
	{ID: "1", Label: "J'ai faim", Labels: labels("J'ai faim", "Noana aho", "I'm hungry"), Category: "food", Imagery: "🍽️"},
	{ID: "10", Label: "Je veux du pain", Labels: labels("Je veux du pain", "Tia mofo aho", "I want bread"), Category: "food", Imagery: "🍞"},
	{ID: "13", Label: "Je veux du riz", Labels: labels("Je veux du riz", "Tia vary aho", "I want rice"), Category: "food", Imagery: "🍚"},
	{ID: "2", Label: "J'ai soif", Labels: labels("J'ai soif", "Mangetaheta aho", "I'm thirsty"), Category: "drink", Imagery: "🥤"},
	{ID: "15", Label: "Je veux de l'eau", Labels: labels("Je veux de l'eau", "Tia isotro rano aho", "I want water"), Category: "drink", Imagery: "💧"},
	{ID: "17", Label: "Je veux du lait", Labels: labels("Je veux du lait", "Tia isotro ronono aho", "I want milk"), Category: "drink", Imagery: "🥛"},
	{ID: "3", Label: "Toilettes", Labels: labels("Toilettes", "Kabone", "Toilet"), Category: "needs", Imagery: "🚻"},
	{ID: "4", Label: "Aide", Labels: labels("Aide", "Fanampiana", "Help"), Category: "needs", Imagery: "🆘"},
	{ID: "19", Label: "Je suis fatigué(e)", Labels: labels("Je suis fatigué(e)", "Reraka aho", "I'm tired"), Category: "needs", Imagery: "😴"},
	{ID: "24", Label: "Je veux sortir", Labels: labels("Je veux sortir", "Tia mivoaka aho", "I want to go out"), Category: "home", Imagery: "🚪"},
	{ID: "7", Label: "J'ai mal", Labels: labels("J'ai mal", "Marary aho", "I'm in pain"), Category: "feelings", Imagery: "🤕"},
	{ID: "8", Label: "Merci", Labels: labels("Merci", "Misaotra", "Thank you"), Category: "feelings", Imagery: "🙏"},
	{ID: "29", Label: "Je veux jouer", Labels: labels("Je veux jouer", "Tia milalao aho", "I want to play"), Category: "activities", Imagery: "🧸"},
	{ID: "33", Label: "Appeler maman", Labels: labels("Appeler maman", "Antsoy i Neny", "Call mom"), Category: "call", Imagery: "👩"},
}
