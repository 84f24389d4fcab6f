package php

import "strings"

// builtinClasses lists the classes and interfaces PHP and its bundled extensions declare
// without a source file.
var builtinClasses = func() map[string]bool {
	names := []string{
		"stdClass", "Closure", "Generator", "WeakMap", "WeakReference", "Fiber",
		"Traversable", "Iterator", "IteratorAggregate", "ArrayAccess", "Countable",
		"Serializable", "Stringable", "JsonSerializable", "UnitEnum", "BackedEnum",
		"Throwable", "Exception", "Error", "ErrorException", "TypeError", "ValueError",
		"ArithmeticError", "DivisionByZeroError", "ArgumentCountError", "JsonException",
		"LogicException", "BadFunctionCallException", "BadMethodCallException",
		"DomainException", "InvalidArgumentException", "LengthException", "OutOfRangeException",
		"RuntimeException", "OutOfBoundsException", "OverflowException", "RangeException",
		"UnderflowException", "UnexpectedValueException",
		"DateTime", "DateTimeImmutable", "DateTimeInterface", "DateTimeZone", "DateInterval", "DatePeriod",
		"ArrayObject", "ArrayIterator", "IteratorIterator", "SplObjectStorage", "SplQueue",
		"SplStack", "SplFixedArray", "SplPriorityQueue", "SplFileInfo", "SplFileObject",
		"SplTempFileObject", "SplDoublyLinkedList", "SplHeap", "SplMinHeap", "SplMaxHeap",
		"RecursiveIterator", "RecursiveIteratorIterator", "RecursiveArrayIterator",
		"DirectoryIterator", "FilesystemIterator", "RecursiveDirectoryIterator", "GlobIterator",
		"SeekableIterator", "OuterIterator", "EmptyIterator", "CachingIterator", "LimitIterator",
		"AppendIterator", "InfiniteIterator", "NoRewindIterator", "CallbackFilterIterator",
		"FilterIterator", "RegexIterator",
		"ReflectionClass", "ReflectionObject", "ReflectionMethod", "ReflectionProperty",
		"ReflectionFunction", "ReflectionParameter", "ReflectionNamedType", "ReflectionException",
		"PDO", "PDOStatement", "PDOException", "SimpleXMLElement", "DOMDocument", "DOMElement",
		"DOMNode", "DOMXPath", "XMLReader", "XMLWriter", "SensitiveParameter", "Attribute",
		"ReturnTypeWillChange", "AllowDynamicProperties", "Override",
	}

	classes := make(map[string]bool, len(names))
	for _, name := range names {
		classes[strings.ToLower(name)] = true
	}
	return classes
}()

func isBuiltinClass(name string) bool {
	return builtinClasses[strings.ToLower(strings.TrimPrefix(name, `\`))]
}
