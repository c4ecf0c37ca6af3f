package memory

import "cppquiz-service/internal/domain"

// DefaultQuestions is a built-in C++ question bank so the service can run
// without a database.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:   "1",
			Text: "Which of the following best describes an array?",
			Options: []string{
				"A data structure that stores elements in contiguous memory locations",
				"A structure that allows dynamic resizing",
				"A collection of nodes connected by pointers",
				"A non-sequential storage structure",
			},
			CorrectIndex: 0,
			Difficulty:   domain.Easy,
			TimeLimit:    20,
			Strict:       true,
			Explanation:  "An array stores elements in contiguous memory locations, allowing efficient access by index.",
		},
		{
			ID:           "2",
			Text:         "Which data structure follows the Last In First Out (LIFO) principle?",
			Options:      []string{"Queue", "Stack", "Linked list", "Tree"},
			CorrectIndex: 1,
			Difficulty:   domain.Easy,
			TimeLimit:    20,
			Explanation:  "A stack pushes and pops from the same end, so the last element in is the first out.",
		},
		{
			ID:           "3",
			Text:         "What is the correct way to declare a pointer to an integer in C++?",
			Options:      []string{"int ptr;", "int *ptr;", "ptr int*;", "pointer<int> ptr;"},
			CorrectIndex: 1,
			Difficulty:   domain.Easy,
			TimeLimit:    15,
			Explanation:  "The asterisk before the identifier declares a pointer type.",
		},
		{
			ID:           "4",
			Text:         "Which access specifier makes class members visible only inside the class itself?",
			Options:      []string{"public", "protected", "private", "internal"},
			CorrectIndex: 2,
			Difficulty:   domain.Easy,
			TimeLimit:    15,
			Explanation:  "private members are accessible only from member functions and friends of the class.",
		},
		{
			ID:           "5",
			Text:         "What will `sizeof(char)` evaluate to in C++?",
			Options:      []string{"Implementation defined", "1", "2", "4"},
			CorrectIndex: 1,
			Difficulty:   domain.Medium,
			TimeLimit:    20,
			Explanation:  "The standard defines sizeof(char) as exactly 1.",
		},
		{
			ID:   "6",
			Text: "What is the output?\n\n```cpp\nint x = 5;\nint y = x++;\ncout << x << \" \" << y;\n```",
			Options: []string{
				"5 5",
				"6 5",
				"6 6",
				"5 6",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Medium,
			TimeLimit:    25,
			Explanation:  "Post-increment yields the old value, so y gets 5 while x becomes 6.",
		},
		{
			ID:   "7",
			Text: "Which statement about virtual functions is correct?",
			Options: []string{
				"They are resolved at compile time",
				"They enable run-time polymorphism through a vtable",
				"They cannot be overridden in derived classes",
				"They must be static",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Medium,
			TimeLimit:    25,
			Explanation:  "Calls through a base pointer dispatch via the vtable at run time.",
		},
		{
			ID:   "8",
			Text: "What is the average-case time complexity of binary search on a sorted array?",
			Options: []string{
				"O(n)",
				"O(n log n)",
				"O(log n)",
				"O(1)",
			},
			CorrectIndex: 2,
			Difficulty:   domain.Medium,
			TimeLimit:    20,
			Explanation:  "Each comparison halves the search interval.",
		},
		{
			ID:   "9",
			Text: "What is wrong with this destructor?\n\n```cpp\nResource() { data = new int[100]; }\n~Resource() { delete data; }\n```",
			Options: []string{
				"The constructor should use malloc",
				"delete should be delete[] for array deallocation",
				"data must be freed in the constructor",
				"Nothing, C++ collects the rest",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Hard,
			TimeLimit:    30,
			Explanation:  "Memory allocated with new[] must be released with delete[]; plain delete is undefined behavior here.",
		},
		{
			ID:   "10",
			Text: "Which loop bound causes undefined behavior?\n\n```cpp\nint arr[5] = {1, 2, 3, 4, 5};\nfor (int i = 0; i <= 5; i++) cout << arr[i];\n```",
			Options: []string{
				"The initialization i = 0",
				"The condition i <= 5 reads past the last element",
				"The increment i++",
				"The array initializer",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Hard,
			TimeLimit:    30,
			Explanation:  "A 5-element array has indices 0 through 4; i == 5 is out of bounds.",
		},
		{
			ID:   "11",
			Text: "What does this print?\n\n```cpp\nint a = 5;\nint& b = a;\nint* c = &a;\n*c = 10;\nb = 15;\ncout << a << \" \" << b << \" \" << *c;\n```",
			Options: []string{
				"5 15 10",
				"15 15 15",
				"10 10 10",
				"15 10 15",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Hard,
			TimeLimit:    35,
			Explanation:  "b and c both alias a, so every write lands in the same object.",
		},
		{
			ID:   "12",
			Text: "Which container guarantees amortized O(1) push_back?",
			Options: []string{
				"std::list",
				"std::vector",
				"std::map",
				"std::set",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Easy,
			TimeLimit:    15,
			Explanation:  "vector grows geometrically, making push_back amortized constant time.",
		},
	}
}

// DefaultBonusQuestions is the built-in high-stakes pool.
func DefaultBonusQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:   "101",
			Text: "What will be the output?\n\n```cpp\nint arr[] = {1, 2, 3, 4, 5};\nint* p = arr;\nint* q = &arr[4];\nwhile (p < q) {\n    cout << *p << \" \";\n    p += 2;\n}\n```",
			Options: []string{
				"1 2 3 4",
				"1 3",
				"1 3 5",
				"1 3 5 2 4",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Hard,
			TimeLimit:    60,
			Bonus:        true,
			Explanation:  "p visits arr[0] and arr[2]; the next step lands on arr[4], which is not < q.",
		},
		{
			ID:   "102",
			Text: "Which snippet correctly swaps two numbers without a third variable?",
			Options: []string{
				"a = a + b; b = a - b; a = a + b;",
				"a = a + b; b = a - b; a = a - b;",
				"a = a * b; b = a / b; a = a / b;",
				"a = a - b; b = a + b; a = b - a;",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Hard,
			TimeLimit:    60,
			Bonus:        true,
			Explanation:  "Sum in a, recover the original a into b, then recover the original b into a.",
		},
		{
			ID:   "103",
			Text: "Find the error:\n\n```cpp\nint factorial(int n) {\n    if (n == 0) return 1;\n    return n * factorial(n);\n}\n```",
			Options: []string{
				"Base case is wrong",
				"The recursive call should be factorial(n-1)",
				"Return type should be long long",
				"Negative inputs must be rejected first",
			},
			CorrectIndex: 1,
			Difficulty:   domain.Hard,
			TimeLimit:    60,
			Bonus:        true,
			Explanation:  "factorial(n) never approaches the base case, so the recursion is infinite.",
		},
	}
}
